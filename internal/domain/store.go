package domain

// Side es la dirección de una oferta desde el punto de vista de la tienda.
type Side int

const (
	SideSelling Side = iota // la tienda vende el item (nosotros compramos)
	SideBuying              // la tienda compra el item (nosotros vendemos)
)

func (s Side) String() string {
	if s == SideBuying {
		return "buying"
	}
	return "selling"
}

// Offer es un listado de compra o venta de una tienda para un item.
type Offer struct {
	Store     string
	ItemName  string
	Side      Side
	Price     float64
	Quantity  float64 // unidades disponibles (solo venta); 0 si no viene
	Limit     Bound   // límite por oferta; Unbounded si no viene
	MaxWanted Bound   // máximo que la tienda quiere comprar; Unbounded si no viene
}

// Store representa una tienda del snapshot. Inmutable durante una pasada de detección.
type Store struct {
	Name     string
	Currency string
	Enabled  bool
	Balance  Bound
	Offers   []Offer
}

// Participates devuelve true si la tienda entra en el matching para la moneda dada.
func (s Store) Participates(currency string) bool {
	return s.Enabled && s.Currency == currency
}

// Selling devuelve las ofertas de venta en el orden del listado.
func (s Store) Selling() []Offer {
	return s.bySide(SideSelling)
}

// Buying devuelve las ofertas de compra en el orden del listado.
func (s Store) Buying() []Offer {
	return s.bySide(SideBuying)
}

// BuyingByItem indexa las ofertas de compra por nombre de item.
func (s Store) BuyingByItem() map[string][]Offer {
	idx := make(map[string][]Offer)
	for _, o := range s.Offers {
		if o.Side == SideBuying {
			idx[o.ItemName] = append(idx[o.ItemName], o)
		}
	}
	return idx
}

func (s Store) bySide(side Side) []Offer {
	var out []Offer
	for _, o := range s.Offers {
		if o.Side == side {
			out = append(out, o)
		}
	}
	return out
}
