package ports

import (
	"context"

	"github.com/alejandrodnm/storearb/internal/domain"
)

// StoreProvider obtiene el snapshot de tiendas y sus ofertas.
type StoreProvider interface {
	// FetchStores descarga el snapshot y lo normaliza a domain.Store.
	// Devuelve un error envolviendo domain.ErrFetchFailed o domain.ErrMalformedSnapshot
	// si no hay datos utilizables.
	FetchStores(ctx context.Context) ([]domain.Store, error)
}
