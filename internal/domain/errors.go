package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para nombrar el valor ofensivo.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidFormat    = errors.New("formato de archivo inválido")
	ErrDuplicate        = errors.New("transacción duplicada")
	ErrInsufficientPODs = errors.New("PODs insuficientes")
	ErrStorage          = errors.New("falla de almacenamiento")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrAIUnavailable    = errors.New("servicio de IA no disponible")
)

// IsBusinessError indica si err es un error recuperable por el usuario (validación o regla de negocio).
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInsufficientPODs)
}
