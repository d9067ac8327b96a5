package domain

import (
	"math"
	"strconv"
)

// Bound es una cantidad que puede estar acotada (Bounded) o no tener límite (Unbounded).
// Se usa para límites opcionales de ofertas y para balances "Infinity".
// El zero value es Bounded(0).
type Bound struct {
	value     float64
	unbounded bool
}

// Bounded devuelve un Bound finito con valor n.
func Bounded(n float64) Bound {
	return Bound{value: n}
}

// Unbounded devuelve un Bound sin límite.
func Unbounded() Bound {
	return Bound{unbounded: true}
}

// Value devuelve el valor y true si está acotado; (0, false) si no tiene límite.
func (b Bound) Value() (float64, bool) {
	if b.unbounded {
		return 0, false
	}
	return b.value, true
}

// IsBounded devuelve true si el valor es finito.
func (b Bound) IsBounded() bool {
	return !b.unbounded
}

// Covers devuelve true si el Bound es >= n. Un Bound sin límite cubre cualquier valor.
func (b Bound) Covers(n float64) bool {
	return b.unbounded || b.value >= n
}

func (b Bound) String() string {
	if b.unbounded {
		return "Infinity"
	}
	return strconv.FormatFloat(b.value, 'f', -1, 64)
}

// MinBound devuelve el menor de los valores. Unbounded actúa como +∞,
// así que solo gana si todos los valores son Unbounded.
func MinBound(values ...Bound) Bound {
	result := Unbounded()
	for _, v := range values {
		if v.unbounded {
			continue
		}
		if result.unbounded || v.value < result.value {
			result = v
		}
	}
	return result
}

// ParseBound interpreta un texto como Bound: "Infinity", "inf" y cualquier
// texto no numérico son Unbounded.
func ParseBound(s string) Bound {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Unbounded()
	}
	return Bounded(f)
}
