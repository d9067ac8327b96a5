package scanner

import (
	"log/slog"

	"github.com/alejandrodnm/storearb/internal/domain"
)

const defaultMinProfitPerItem = 0.01

// Finder detecta oportunidades de arbitraje entre pares de tiendas.
// No guarda estado entre llamadas: el mismo snapshot produce el mismo set.
type Finder struct {
	currency         string
	minProfitPerItem float64
}

// NewFinder crea un Finder para la moneda y ganancia mínima por unidad dadas.
func NewFinder(currency string, minProfitPerItem float64) *Finder {
	return &Finder{currency: currency, minProfitPerItem: minProfitPerItem}
}

// Find recorre cada par ordenado (origen, destino) de tiendas distintas que
// participan en la moneda configurada y cruza las ventas del origen con las
// compras del destino para el mismo item.
//
// Las compras de cada destino se indexan por item una sola vez, así el coste
// es O(tiendas² × ofertas) en lugar de comparar todas las ofertas entre sí.
func (f *Finder) Find(stores []domain.Store) domain.OpportunitySet {
	slog.Info("analyzing opportunities",
		"currency", f.currency,
		"min_profit_per_item", f.minProfitPerItem,
		"stores", len(stores),
	)

	eligible := make([]int, 0, len(stores))
	buying := make(map[int]map[string][]domain.Offer, len(stores))
	for i, s := range stores {
		if !s.Participates(f.currency) {
			slog.Debug("skipping store", "store", s.Name, "currency", s.Currency, "enabled", s.Enabled)
			continue
		}
		eligible = append(eligible, i)
		buying[i] = s.BuyingByItem()
	}

	var set domain.OpportunitySet
	for _, i := range eligible {
		source := stores[i]
		selling := source.Selling()
		for _, j := range eligible {
			if i == j {
				continue
			}
			dest := stores[j]
			for _, sell := range selling {
				for _, buy := range buying[j][sell.ItemName] {
					opp, ok := f.match(source, dest, sell, buy)
					if !ok {
						continue
					}
					slog.Debug("profit opportunity found",
						"item", opp.ItemName,
						"buy_from", opp.BuyFrom,
						"buy_price", opp.BuyPrice,
						"sell_to", opp.SellTo,
						"sell_price", opp.SellPrice,
						"profit_per_item", opp.ProfitPerItem,
						"quantity", opp.PotentialQuantity,
						"total_profit", opp.TotalPotentialProfit,
					)
					set.Add(opp)
				}
			}
		}
	}

	if set.Len() == 0 {
		slog.Info("no opportunities found after analysis")
	}
	return set
}

// match evalúa una venta del origen contra una compra del destino.
func (f *Finder) match(source, dest domain.Store, sell, buy domain.Offer) (domain.Opportunity, bool) {
	buyPrice := sell.Price
	sellPrice := buy.Price
	profit := domain.ProfitPerItem(buyPrice, sellPrice)

	if buyPrice >= sellPrice || profit < f.minProfitPerItem {
		return domain.Opportunity{}, false
	}

	qty := domain.MaxSellQuantity(sell, buy, dest.Balance)
	if qty <= 0 || !dest.Balance.Covers(sellPrice) {
		return domain.Opportunity{}, false
	}

	return domain.Opportunity{
		BuyFrom:              source.Name,
		SellTo:               dest.Name,
		ItemName:             sell.ItemName,
		BuyPrice:             buyPrice,
		SellPrice:            sellPrice,
		ProfitPerItem:        profit,
		PotentialQuantity:    qty,
		TotalPotentialProfit: profit * qty,
	}, true
}
