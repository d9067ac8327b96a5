package ports

import (
	"context"

	"github.com/alejandrodnm/storearb/internal/domain"
)

// Notifier presenta el resultado de un run al usuario.
type Notifier interface {
	// Notify muestra las oportunidades ordenadas por ganancia total y los cambios
	// respecto al run anterior.
	Notify(ctx context.Context, report domain.Report) error
}
