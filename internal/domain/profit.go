package domain

import "math"

// ProfitPerItem calcula la ganancia por unidad de comprar a buyPrice y vender a sellPrice.
func ProfitPerItem(buyPrice, sellPrice float64) float64 {
	return sellPrice - buyPrice
}

// AffordableQuantity devuelve cuántas unidades puede pagar el comprador a sellPrice.
//
// Política conservadora: un balance sin límite (o no numérico) o un precio de
// venta 0 no sirven para acotar la cantidad, así que devuelve 0 y la
// oportunidad se descarta en lugar de tratarse como ilimitada.
func AffordableQuantity(balance Bound, sellPrice float64) float64 {
	b, ok := balance.Value()
	if !ok || sellPrice == 0 {
		return 0
	}
	return floorDiv(b, sellPrice)
}

// floorDiv es la división entera de floats calculada sobre el resto exacto
// (math.Mod), no sobre el cociente redondeado: floorDiv(1.0, 0.1) = 9, no 10.
func floorDiv(a, b float64) float64 {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 && (b < 0) != (mod < 0) {
		div--
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	q := math.Floor(div)
	if div-q > 0.5 {
		q++
	}
	return q
}

// MaxSellQuantity calcula la cantidad máxima negociable entre una oferta de venta
// y una de compra:
//
//	min(sell.Quantity, sell.Limit, buy.MaxWanted, floor(balance / buy.Price))
//
// Los límites ausentes son Unbounded y no restringen el mínimo.
func MaxSellQuantity(sell, buy Offer, buyerBalance Bound) float64 {
	q := MinBound(
		Bounded(sell.Quantity),
		sell.Limit,
		buy.MaxWanted,
		Bounded(AffordableQuantity(buyerBalance, buy.Price)),
	)
	v, _ := q.Value()
	return v
}
