package pod

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
)

// MaxQuantity cantidad máxima por transacción; mantiene exactas las sumas int64 del libro.
const MaxQuantity int64 = math.MaxInt32

// DateLayout formato ISO de fecha civil usado en la API y en el libro.
const DateLayout = "2006-01-02"

// Formatos aceptados al leer fechas de formularios o archivos masivos.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Clock devuelve la hora actual; se inyecta para que las reglas dependientes de "hoy" sean testeables.
type Clock func() time.Time

// DateOf trunca t a su fecha civil en loc y la representa como medianoche UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta una fecha de entrada. Vacío devuelve today.
func ParseDate(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return today, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: fecha efectiva inválida: '%s' (use AAAA-MM-DD)", domain.ErrInvalidInput, s)
}

// NormalizeIntent pasa la intención a minúsculas y valida que sea planned o lost.
func NormalizeIntent(intent string) (string, error) {
	i := strings.ToLower(strings.TrimSpace(intent))
	switch i {
	case entity.IntentPlanned, entity.IntentLost:
		return i, nil
	default:
		return "", fmt.Errorf("%w: estado inválido: '%s'. Debe ser 'planned' o 'lost'", domain.ErrInvalidInput, intent)
	}
}

// DeriveMovement calcula el delta con signo y el estado final de una transacción.
//
//	planned + fecha > hoy  → planned, +q
//	planned + fecha <= hoy → live,    +q
//	lost (cualquier fecha) → lost,    -q
func DeriveMovement(intent string, quantity int64, effective, today time.Time) (int64, string, error) {
	if quantity <= 0 {
		return 0, "", fmt.Errorf("%w: la cantidad debe ser un entero positivo (recibido %d)", domain.ErrInvalidInput, quantity)
	}
	if quantity > MaxQuantity {
		return 0, "", fmt.Errorf("%w: la cantidad %d supera el máximo permitido (%d)", domain.ErrInvalidInput, quantity, MaxQuantity)
	}
	i, err := NormalizeIntent(intent)
	if err != nil {
		return 0, "", err
	}
	if i == entity.IntentLost {
		return -quantity, entity.StatusLost, nil
	}
	if effective.After(today) {
		return quantity, entity.StatusPlanned, nil
	}
	return quantity, entity.StatusLive, nil
}
