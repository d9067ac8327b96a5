package storefront

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/storearb/internal/domain"
)

// Normalize convierte el documento JSON del snapshot a domain.Store.
// Falla con domain.ErrMalformedSnapshot si falta la colección "Stores" o el
// documento no es JSON válido. Las ofertas inválidas se descartan sin abortar.
func Normalize(data []byte) ([]domain.Store, error) {
	var resp snapshotResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("storefront.Normalize: %w: %v", domain.ErrMalformedSnapshot, err)
	}
	if resp.Stores == nil {
		return nil, fmt.Errorf("storefront.Normalize: %w: missing Stores", domain.ErrMalformedSnapshot)
	}
	return mapStores(*resp.Stores), nil
}

// mapStores convierte los DTOs a domain.Store conservando el orden.
func mapStores(raw []rawStore) []domain.Store {
	stores := make([]domain.Store, 0, len(raw))
	for _, r := range raw {
		stores = append(stores, mapStore(r))
	}
	return stores
}

func mapStore(r rawStore) domain.Store {
	s := domain.Store{
		Name:     r.Name,
		Currency: r.CurrencyName,
		Enabled:  r.Enabled,
		Balance:  r.Balance.bound,
		Offers:   make([]domain.Offer, 0, len(r.AllOffers)),
	}

	for i, data := range r.AllOffers {
		o, err := decodeOffer(r.Name, data)
		if err != nil {
			slog.Debug("skipping offer", "store", r.Name, "index", i, "err", err)
			continue
		}
		s.Offers = append(s.Offers, o)
	}
	return s
}

func decodeOffer(store string, data json.RawMessage) (domain.Offer, error) {
	var ro rawOffer
	if err := json.Unmarshal(data, &ro); err != nil {
		return domain.Offer{}, fmt.Errorf("%w: %v", domain.ErrMalformedOffer, err)
	}
	return mapOffer(store, ro)
}

// mapOffer valida y convierte una oferta. ItemName y Price son obligatorios.
func mapOffer(store string, r rawOffer) (domain.Offer, error) {
	if r.ItemName == nil || *r.ItemName == "" {
		return domain.Offer{}, fmt.Errorf("%w: missing ItemName", domain.ErrMalformedOffer)
	}
	if r.Price == nil {
		return domain.Offer{}, fmt.Errorf("%w: missing Price for %q", domain.ErrMalformedOffer, *r.ItemName)
	}
	if *r.Price < 0 {
		return domain.Offer{}, fmt.Errorf("%w: negative Price for %q", domain.ErrMalformedOffer, *r.ItemName)
	}

	side := domain.SideSelling
	if r.Buying {
		side = domain.SideBuying
	}

	o := domain.Offer{
		Store:     store,
		ItemName:  *r.ItemName,
		Side:      side,
		Price:     *r.Price,
		Limit:     optionalBound(r.Limit),
		MaxWanted: optionalBound(r.MaxNumWanted),
	}
	if r.Quantity != nil {
		o.Quantity = *r.Quantity
	}
	return o, nil
}

func optionalBound(v *float64) domain.Bound {
	if v == nil {
		return domain.Unbounded()
	}
	return domain.Bounded(*v)
}
