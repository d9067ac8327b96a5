package storefront

import (
	"encoding/json"
	"strings"

	"github.com/alejandrodnm/storearb/internal/domain"
)

// DTOs raw del snapshot de tiendas. Solo se usan dentro de este paquete.
// La conversión a domain se hace en mapping.go.

// snapshotResponse es el documento raíz. Stores es puntero para distinguir
// "ausente" de "lista vacía".
type snapshotResponse struct {
	Stores *[]rawStore `json:"Stores"`
}

type rawStore struct {
	Name         string            `json:"Name"`
	CurrencyName string            `json:"CurrencyName"`
	Enabled      bool              `json:"Enabled"`
	Balance      rawBalance        `json:"Balance"`
	AllOffers    []json.RawMessage `json:"AllOffers"`
}

// rawOffer usa punteros para detectar campos ausentes. Se decodifica oferta a
// oferta: un campo con tipo incorrecto invalida solo esa oferta.
type rawOffer struct {
	ItemName     *string  `json:"ItemName"`
	Buying       bool     `json:"Buying"`
	Price        *float64 `json:"Price"`
	Quantity     *float64 `json:"Quantity"`
	Limit        *float64 `json:"Limit"`
	MaxNumWanted *float64 `json:"MaxNumWanted"`
}

// rawBalance acepta un número o un string ("Infinity"). Ausente o null = 0.
type rawBalance struct {
	bound domain.Bound
}

func (b *rawBalance) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		b.bound = domain.Bounded(0)
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		b.bound = domain.ParseBound(strings.TrimSpace(str))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// bool, objeto, etc: no numérico → sin límite (se suprime igual que "Infinity")
		b.bound = domain.Unbounded()
		return nil
	}
	b.bound = domain.Bounded(f)
	return nil
}
