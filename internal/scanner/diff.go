package scanner

import "github.com/alejandrodnm/storearb/internal/domain"

// Diff compara el set del run anterior con el actual.
//
//   - Appeared: claves nuevas en current (orden de current).
//   - Gone: claves de previous que ya no están (orden de previous).
//   - Increased: claves en ambos cuyo TotalPotentialProfit subió; se emite el valor actual.
//
// Las que bajan o se mantienen no aparecen en ninguna lista.
func Diff(previous, current domain.OpportunitySet) domain.Changes {
	var changes domain.Changes

	for _, cur := range current.Items() {
		prev, ok := previous.Get(cur.Key())
		if !ok {
			changes.Appeared = append(changes.Appeared, cur)
			continue
		}
		if cur.TotalPotentialProfit > prev.TotalPotentialProfit {
			changes.Increased = append(changes.Increased, cur)
		}
	}

	for _, prev := range previous.Items() {
		if !current.Has(prev.Key()) {
			changes.Gone = append(changes.Gone, prev)
		}
	}

	return changes
}
