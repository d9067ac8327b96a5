package domain

import "errors"

var (
	// ErrFetchFailed indica que el snapshot no se pudo descargar (transporte o status no 2xx).
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMalformedSnapshot indica que el documento no contiene la colección "Stores".
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrMalformedOffer indica una oferta sin nombre de item o sin precio. No es fatal.
	ErrMalformedOffer = errors.New("malformed offer")
	// ErrPersistenceRead indica que el estado anterior persistido no se pudo leer.
	ErrPersistenceRead = errors.New("persistence read failed")
	// ErrInvalidConfig indica una configuración incompleta o con valores mal formados.
	ErrInvalidConfig = errors.New("invalid config")
)
