package domain

import (
	"sort"
	"time"
)

// Opportunity es una pareja rentable: comprar ItemName en BuyFrom y venderlo a SellTo.
// Los tags JSON son el formato del documento persistido.
type Opportunity struct {
	BuyFrom              string  `json:"BuyFrom"`
	SellTo               string  `json:"SellTo"`
	ItemName             string  `json:"ItemName"`
	BuyPrice             float64 `json:"BuyPrice"`
	SellPrice            float64 `json:"SellPrice"`
	ProfitPerItem        float64 `json:"ProfitPerItem"`
	PotentialQuantity    float64 `json:"PotentialQuantity"`
	TotalPotentialProfit float64 `json:"TotalPotentialProfit"`
}

// OpportunityKey identifica una oportunidad entre snapshots: ruta + item, no precio.
type OpportunityKey struct {
	BuyFrom  string
	SellTo   string
	ItemName string
}

// Key devuelve la identidad de la oportunidad.
func (o Opportunity) Key() OpportunityKey {
	return OpportunityKey{BuyFrom: o.BuyFrom, SellTo: o.SellTo, ItemName: o.ItemName}
}

func (k OpportunityKey) less(other OpportunityKey) bool {
	if k.BuyFrom != other.BuyFrom {
		return k.BuyFrom < other.BuyFrom
	}
	if k.SellTo != other.SellTo {
		return k.SellTo < other.SellTo
	}
	return k.ItemName < other.ItemName
}

// OpportunitySet es una colección de oportunidades indexada por OpportunityKey.
// Conserva el orden de descubrimiento. El zero value es un set vacío listo para usar.
type OpportunitySet struct {
	items []Opportunity
	index map[OpportunityKey]int
}

// NewOpportunitySet construye un set con las oportunidades dadas.
func NewOpportunitySet(opps ...Opportunity) OpportunitySet {
	var s OpportunitySet
	for _, o := range opps {
		s.Add(o)
	}
	return s
}

// Add inserta la oportunidad. Si la clave ya existe se queda la de mayor
// TotalPotentialProfit; en empate gana la primera. Devuelve true si el set cambió.
func (s *OpportunitySet) Add(o Opportunity) bool {
	if s.index == nil {
		s.index = make(map[OpportunityKey]int)
	}
	k := o.Key()
	if i, ok := s.index[k]; ok {
		if o.TotalPotentialProfit > s.items[i].TotalPotentialProfit {
			s.items[i] = o
			return true
		}
		return false
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, o)
	return true
}

// Get devuelve la oportunidad con la clave dada.
func (s OpportunitySet) Get(k OpportunityKey) (Opportunity, bool) {
	i, ok := s.index[k]
	if !ok {
		return Opportunity{}, false
	}
	return s.items[i], true
}

// Has devuelve true si la clave está en el set.
func (s OpportunitySet) Has(k OpportunityKey) bool {
	_, ok := s.index[k]
	return ok
}

func (s OpportunitySet) Len() int {
	return len(s.items)
}

// Items devuelve una copia de las oportunidades en orden de descubrimiento.
func (s OpportunitySet) Items() []Opportunity {
	out := make([]Opportunity, len(s.items))
	copy(out, s.items)
	return out
}

// Ranked devuelve una copia ordenada por TotalPotentialProfit descendente.
// Solo para presentación: no afecta qué oportunidades existen.
func (s OpportunitySet) Ranked() []Opportunity {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPotentialProfit != out[j].TotalPotentialProfit {
			return out[i].TotalPotentialProfit > out[j].TotalPotentialProfit
		}
		return out[i].Key().less(out[j].Key())
	})
	return out
}

// TotalProfit suma el TotalPotentialProfit de todo el set.
func (s OpportunitySet) TotalProfit() float64 {
	total := 0.0
	for _, o := range s.items {
		total += o.TotalPotentialProfit
	}
	return total
}

// Changes es el resultado de comparar el set anterior con el actual.
// No existe categoría "decreased": solo se destacan las mejoras.
type Changes struct {
	Appeared  []Opportunity
	Gone      []Opportunity
	Increased []Opportunity // valor actual
}

// Empty devuelve true si no hubo cambios.
func (c Changes) Empty() bool {
	return len(c.Appeared) == 0 && len(c.Gone) == 0 && len(c.Increased) == 0
}

// Report agrupa todo lo que produce una pasada del scanner.
type Report struct {
	RunID       string
	ScannedAt   time.Time
	Currency    string
	Stores      int
	Current     OpportunitySet
	Changes     Changes
	HasPrevious bool // false si no había un set anterior con oportunidades (primer run, vacío o ilegible)
}

// RunSummary es el resumen persistido de un run (histórico en SQLite).
type RunSummary struct {
	RunID         string
	ScannedAt     time.Time
	Currency      string
	Opportunities int
	TotalProfit   float64
}
