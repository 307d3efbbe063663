package cache

import (
	"context"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
)

var _ ports.SummaryCache = NoopCache{}

// NoopCache se usa cuando Redis no está configurado o no responde; nunca encuentra nada.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error                  { return nil }
