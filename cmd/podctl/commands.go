package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ledger"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/bootstrap"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
	infraexcel "github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/excel"
	infrapdf "github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/pdf"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/config"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/logger"
)

// withApp carga configuración, arma los casos de uso y los libera al terminar la acción.
// El CLI registra a stderr y solo warn o más grave, salvo LOG_LEVEL explícito.
func withApp(fn func(ctx context.Context, c *cli.Context, app *bootstrap.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		level := "warn"
		if _, ok := os.LookupEnv("LOG_LEVEL"); ok {
			level = cfg.App.LogLevel
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: os.Stderr})

		ctx := c.Context
		app, err := bootstrap.Build(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(ctx, c, app)
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "crea el esquema y siembra el catálogo si está vacío",
		Action: withApp(func(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
			products, err := app.MasterData.Products(ctx)
			if err != nil {
				return err
			}
			retailers, err := app.MasterData.Retailers(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "catálogo listo: %d productos, %d cadenas\n", len(products), len(retailers))
			return nil
		}),
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "registra una transacción",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "product", Aliases: []string{"p"}, Required: true, Usage: "nombre o SKU del producto"},
			&cli.StringFlag{Name: "retailer", Aliases: []string{"r"}, Required: true, Usage: "nombre de la cadena"},
			&cli.Int64Flag{Name: "quantity", Aliases: []string{"q"}, Required: true, Usage: "cantidad de PODs (positiva)"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Value: entity.IntentPlanned, Usage: "planned | lost"},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "fecha efectiva AAAA-MM-DD (por defecto hoy)"},
		},
		Action: withApp(func(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
			trx, err := app.Ledger.Submit(ctx, ledger.TransactionInput{
				ProductName:   c.String("product"),
				RetailerName:  c.String("retailer"),
				Quantity:      c.Int64("quantity"),
				Status:        c.String("status"),
				EffectiveDate: c.String("date"),
			}, c.String("user"), entity.SourceCLI)
			if err != nil {
				return err
			}
			app.Summary.Invalidate(ctx)
			fmt.Fprintf(c.App.Writer, "registrada %s: %s @ %s %+d (%s, %s)\n",
				trx.ID, trx.ProductName, trx.RetailerName, trx.QuantityDelta, trx.Status, trx.EffectiveDate.Format(time.DateOnly))
			return nil
		}),
	}
}

func bulkAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "bulk-add",
		Usage:     "carga un archivo CSV o XLSX de transacciones",
		ArgsUsage: "<archivo>",
		Action: withApp(func(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("falta el archivo a cargar")
			}
			format, err := ledger.FormatFromFilename(path)
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("abrir %s: %w", path, err)
			}
			defer f.Close()

			res, err := app.Ledger.Ingest(ctx, f, format, c.String("user"))
			if err != nil {
				return err
			}
			if res.Accepted > 0 {
				app.Summary.Invalidate(ctx)
			}
			printBulkResult(c.App.Writer, res)
			if res.Accepted == 0 && len(res.Errors) > 0 {
				return cli.Exit("ninguna fila aceptada", 2)
			}
			return nil
		}),
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "muestra el pivot producto × cadena",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "future", Aliases: []string{"f"}, Usage: "incluir fechas efectivas futuras"},
		},
		Action: withApp(func(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
			table, err := app.Summary.Pivot(ctx, c.Bool("future"))
			if err != nil {
				return err
			}
			return printPivot(c.App.Writer, table)
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "exporta las vistas actual y futura a XLSX o PDF según la extensión",
		ArgsUsage: "<archivo.xlsx|archivo.pdf>",
		Action: withApp(func(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("falta el archivo de salida")
			}
			w, err := writerFor(path)
			if err != nil {
				return err
			}
			current, future, err := app.Summary.ExportViews(ctx)
			if err != nil {
				return err
			}
			if current.IsEmpty() && future.IsEmpty() {
				return errors.New("no hay datos para exportar")
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("crear %s: %w", path, err)
			}
			if err := w.Write(f, current, future, time.Now()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "reporte escrito en %s\n", path)
			return nil
		}),
	}
}

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "pregunta en lenguaje natural sobre el libro",
		ArgsUsage: "<pregunta>",
		Action: withApp(func(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
			question := strings.Join(c.Args().Slice(), " ")
			answer, err := app.Assistant.Chat(ctx, question)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, answer)
			return nil
		}),
	}
}

// ── Salida ────────────────────────────────────────────────────────────────────

func writerFor(path string) (ports.ReportWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return infraexcel.NewReportWriter(), nil
	case ".pdf":
		return infrapdf.NewReportWriter(), nil
	default:
		return nil, fmt.Errorf("extensión no soportada %q: use .xlsx o .pdf", filepath.Ext(path))
	}
}

func printBulkResult(out io.Writer, res *ledger.BulkResult) {
	fmt.Fprintf(out, "lote %s: %d filas aceptadas, %d rechazadas\n", res.BatchID, res.Accepted, len(res.Errors))
	for _, e := range res.Errors {
		if e.Row == 0 {
			fmt.Fprintf(out, "  lote: %s\n", e.Message)
			continue
		}
		fmt.Fprintf(out, "  fila %d: %s\n", e.Row, e.Message)
	}
}

// printPivot imprime la matriz alineada con tabwriter; la última fila y columna son los totales.
func printPivot(out io.Writer, table *pod.PivotTable) error {
	if table.IsEmpty() {
		_, err := fmt.Fprintln(out, "sin PODs registrados")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "producto\t")
	for _, r := range table.Retailers {
		fmt.Fprintf(tw, "%s\t", r)
	}
	fmt.Fprintln(tw)
	for i, p := range table.Products {
		fmt.Fprintf(tw, "%s\t", p)
		for _, v := range table.Cells[i] {
			fmt.Fprintf(tw, "%d\t", v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
