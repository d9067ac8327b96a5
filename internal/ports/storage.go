package ports

import (
	"context"

	"github.com/alejandrodnm/storearb/internal/domain"
)

// SnapshotStore persiste el set de oportunidades de un run para compararlo con el siguiente.
// No hay protección frente a runs concurrentes sobre el mismo documento.
type SnapshotStore interface {
	// Load devuelve el último set guardado. Si no existe devuelve un set vacío y nil.
	// Si existe pero no se puede leer devuelve un set vacío y un error que envuelve
	// domain.ErrPersistenceRead.
	Load(ctx context.Context) (domain.OpportunitySet, error)

	// Save sobreescribe el documento con el set dado de forma atómica.
	Save(ctx context.Context, set domain.OpportunitySet) error

	// Close libera los recursos del backend.
	Close() error
}
