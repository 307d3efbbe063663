// podctl opera el libro de PODs desde la terminal con la misma configuración que la API.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
)

func main() {
	app := &cli.App{
		Name:  "podctl",
		Usage: "registrar, consultar y exportar los PODs del libro",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Usage:   "usuario de auditoría de las transacciones",
				Value:   "cli_user",
				EnvVars: []string{"POD_USER"},
			},
		},
		Commands: []*cli.Command{
			seedCommand(),
			addCommand(),
			bulkAddCommand(),
			summaryCommand(),
			exportCommand(),
			askCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// Rechazos de negocio (validación, PODs insuficientes, duplicados) salen con 2.
		if domain.IsBusinessError(err) {
			fmt.Fprintln(os.Stderr, "rechazado:", err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
