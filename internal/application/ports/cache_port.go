package ports

import (
	"context"
	"time"
)

// SummaryCache caché de lecturas de resumen (pivots serializados).
// Un miss devuelve ok=false sin error.
type SummaryCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
