package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

const upcomingLimit = 5

// UpcomingChange transacción con fecha efectiva futura.
type UpcomingChange struct {
	ProductName   string
	RetailerName  string
	QuantityDelta int64
	EffectiveDate time.Time
}

// Outlook totales actuales y proyectados del libro; es el contexto de datos de las respuestas conversacionales.
type Outlook struct {
	Today           time.Time
	Empty           bool
	CurrentTotal    int64
	FutureNetChange int64
	ProjectedTotal  int64
	Upcoming        []UpcomingChange
}

// Outlook calcula el total a hoy, el cambio neto futuro, el total proyectado y los próximos cambios.
func (uc *UseCase) Outlook(ctx context.Context) (*Outlook, error) {
	entries, err := uc.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	o := &Outlook{Today: uc.Today(), Empty: len(entries) == 0, Upcoming: []UpcomingChange{}}

	var future []UpcomingChange
	for _, e := range entries {
		if e.EffectiveDate.After(o.Today) {
			o.FutureNetChange += e.QuantityDelta
			future = append(future, UpcomingChange{
				ProductName:   e.ProductName,
				RetailerName:  e.RetailerName,
				QuantityDelta: e.QuantityDelta,
				EffectiveDate: e.EffectiveDate,
			})
			continue
		}
		o.CurrentTotal += e.QuantityDelta
	}
	o.ProjectedTotal = o.CurrentTotal + o.FutureNetChange

	sort.SliceStable(future, func(i, j int) bool { return future[i].EffectiveDate.Before(future[j].EffectiveDate) })
	if len(future) > upcomingLimit {
		future = future[:upcomingLimit]
	}
	o.Upcoming = append(o.Upcoming, future...)
	return o, nil
}

// Context texto que se entrega al LLM como contexto de datos.
func (o *Outlook) Context() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total actual de PODs a hoy (%s): %d\n", o.Today.Format(pod.DateLayout), o.CurrentTotal)
	fmt.Fprintf(&b, "Cambio neto por transacciones con fecha futura: %+d\n", o.FutureNetChange)
	fmt.Fprintf(&b, "Total proyectado de PODs: %d\n", o.ProjectedTotal)
	b.WriteString("Próximos cambios:\n")
	if len(o.Upcoming) == 0 {
		b.WriteString("- Ninguno en el futuro cercano.\n")
	}
	for _, u := range o.Upcoming {
		kind := "ganancia"
		if u.QuantityDelta < 0 {
			kind = "pérdida"
		}
		qty := u.QuantityDelta
		if qty < 0 {
			qty = -qty
		}
		fmt.Fprintf(&b, "- Una %s de %d para %s en %s el %s\n", kind, qty, u.ProductName, u.RetailerName, u.EffectiveDate.Format(pod.DateLayout))
	}
	return b.String()
}
