// arqueo-export writes the printable report of one arqueo to a local directory or GCS.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/arqueo-export -id 42 [-out exports] [-gcs]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/middlewares"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/models/reports"
	"github.com/mmdatafocus/pos_backend/utils"
)

func main() {
	arqueoID := flag.Int("id", 0, "Required: arqueos.id to export")
	outDir := flag.String("out", "", "Output directory (default EXPORT_DIR or ./exports)")
	toGCS := flag.Bool("gcs", false, "Upload to GCS_BUCKET instead of writing a local file")
	flag.Parse()

	if *arqueoID <= 0 {
		fmt.Fprintln(os.Stderr, "--id is required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	// the upload lock needs Redis; without REDIS_ADDRESS the upload runs unlocked
	if *toGCS && strings.TrimSpace(os.Getenv("REDIS_ADDRESS")) != "" {
		config.ConnectRedisWithRetry()
	}

	ctx := utils.SetCorrelationIdInContext(context.Background(), fmt.Sprintf("arqueo-export-%d", *arqueoID))
	ctx = middlewares.WithLoaders(ctx, middlewares.NewLoaders())

	arqueo, err := models.GetArqueo(ctx, *arqueoID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arqueo %d: %v\n", *arqueoID, err)
		os.Exit(1)
	}

	sales := middlewares.NamedSales{SalesProvider: models.Provider{}}
	report, err := reports.BuildArqueoReport(ctx, sales, arqueo, config.AppLocation())
	if err != nil {
		fmt.Fprintf(os.Stderr, "build report: %v\n", err)
		os.Exit(1)
	}

	destination := reports.DestinationLocal
	if *toGCS {
		destination = reports.DestinationGCS
	}
	result, err := reports.ExportArqueoReportTo(ctx, report, destination, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("arqueo %d exported to %s (difference=%s)\n", result.ArqueoId, result.Location, report.Difference.StringFixed(2))
}
