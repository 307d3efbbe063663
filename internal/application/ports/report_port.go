package ports

import (
	"io"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

// ReportWriter renderiza las dos vistas del reporte de PODs (actual y con fechas futuras).
type ReportWriter interface {
	Write(w io.Writer, current, future *pod.PivotTable, generatedAt time.Time) error
	// ContentType y Extension describen el archivo generado.
	ContentType() string
	Extension() string
}
