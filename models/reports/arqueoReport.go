package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("pos_backend/reports")

// SalesSource fetches the sales a report lists.
type SalesSource interface {
	ListSales(ctx context.Context, status models.SaleStatus, from *time.Time, to *time.Time, cashierId *int) ([]*models.Sale, error)
}

// CashierNamer is optionally implemented by a SalesSource that can resolve cashier names.
type CashierNamer interface {
	CashierName(ctx context.Context, id int) (string, error)
}

type ReportSale struct {
	ID            int                  `json:"id"`
	SaleDate      time.Time            `json:"fecha"`
	CustomerName  string               `json:"cliente"`
	PaymentMethod models.PaymentMethod `json:"metodo_pago"`
	Total         decimal.Decimal      `json:"total"`
}

type MethodTotal struct {
	PaymentMethod models.PaymentMethod `json:"metodo_pago"`
	Label         string               `json:"etiqueta"`
	Count         int                  `json:"cantidad"`
	Total         decimal.Decimal      `json:"total"`
}

// ArqueoReport is the printable summary of one reconciliation.
// Expected, counted and difference figures are the stored ones; the sales
// listing and ledger totals are informational.
type ArqueoReport struct {
	ArqueoId       int                      `json:"arqueo_id"`
	CashierId      int                      `json:"cajero_id"`
	CashierName    string                   `json:"cajero"`
	Date           time.Time                `json:"fecha"`
	OpenedAt       time.Time                `json:"fecha_apertura"`
	ClosedAt       *time.Time               `json:"fecha_cierre"`
	Status         models.ArqueoStatus      `json:"estado"`
	TotalSales     decimal.Decimal          `json:"total_ventas"`
	CashSales      decimal.Decimal          `json:"ventas_efectivo"`
	TransferTotal  decimal.Decimal          `json:"total_transferencias"`
	CountedTotal   decimal.Decimal          `json:"total_contado"`
	Difference     decimal.Decimal          `json:"diferencia"`
	Denominations  []models.Denomination    `json:"denominaciones"`
	Transfers      []*models.ArqueoTransfer `json:"transferencias"`
	Sales          []ReportSale             `json:"ventas"`
	LedgerTotal    decimal.Decimal          `json:"total_registrado"`
	LedgerByMethod []MethodTotal            `json:"registrado_por_metodo"`
	Notes          string                   `json:"observaciones"`
	GeneratedAt    time.Time                `json:"generado"`
}

// BuildArqueoReport fetches the confirmed sales of the arqueo's day (and cashier, when set)
// and assembles the report. No report is returned when the sales cannot be fetched.
func BuildArqueoReport(ctx context.Context, src SalesSource, arqueo *models.Arqueo, loc *time.Location) (*ArqueoReport, error) {
	if arqueo == nil {
		return nil, utils.FetchError("build arqueo report", utils.ErrorRecordNotFound)
	}
	if loc == nil {
		loc = config.AppLocation()
	}

	ctx, span := tracer.Start(ctx, "BuildArqueoReport")
	defer span.End()
	span.SetAttributes(
		attribute.Int("arqueo.id", arqueo.ID),
		attribute.Int("arqueo.cashier_id", arqueo.CashierId),
	)

	day := arqueo.ReconciliationDate(loc)
	from := utils.StartOfDay(day, loc)
	to := utils.EndOfDay(day, loc)
	var cashierId *int
	if arqueo.CashierId != 0 {
		id := arqueo.CashierId
		cashierId = &id
	}

	sales, err := src.ListSales(ctx, models.SaleStatusConfirmed, &from, &to, cashierId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list sales")
		config.LogError(config.GetLogger(), "reports", "BuildArqueoReport", "list sales", arqueo.ID, err)
		return nil, utils.FetchError("list sales for arqueo report", err)
	}

	report := &ArqueoReport{
		ArqueoId:      arqueo.ID,
		CashierId:     arqueo.CashierId,
		Date:          day,
		OpenedAt:      arqueo.OpenedAt,
		ClosedAt:      arqueo.ClosedAt,
		Status:        arqueo.Status,
		TotalSales:    arqueo.SystemTotal,
		CashSales:     arqueo.SystemTotal,
		TransferTotal: arqueo.TransferTotal(),
		CountedTotal:  arqueo.CountedTotal,
		Difference:    arqueo.Difference,
		Denominations: arqueo.Denominations(),
		Transfers:     arqueo.Transfers,
		Sales:         make([]ReportSale, 0, len(sales)),
		LedgerTotal:   decimal.Zero,
		Notes:         arqueo.Notes,
		GeneratedAt:   time.Now(),
	}
	if report.Transfers == nil {
		report.Transfers = []*models.ArqueoTransfer{}
	}

	byMethod := make(map[models.PaymentMethod]*MethodTotal)
	for _, s := range sales {
		if s == nil {
			continue
		}
		report.Sales = append(report.Sales, ReportSale{
			ID:            s.ID,
			SaleDate:      s.SaleDate,
			CustomerName:  s.CustomerName,
			PaymentMethod: s.PaymentMethod,
			Total:         s.Total,
		})
		report.LedgerTotal = report.LedgerTotal.Add(s.Total)

		mt, ok := byMethod[s.PaymentMethod]
		if !ok {
			mt = &MethodTotal{PaymentMethod: s.PaymentMethod, Label: s.PaymentMethod.Label(), Total: decimal.Zero}
			byMethod[s.PaymentMethod] = mt
		}
		mt.Count++
		mt.Total = mt.Total.Add(s.Total)
	}
	report.LedgerByMethod = make([]MethodTotal, 0, len(byMethod))
	for _, m := range models.PaymentMethods {
		if mt, ok := byMethod[m]; ok {
			report.LedgerByMethod = append(report.LedgerByMethod, *mt)
		}
	}

	if namer, ok := src.(CashierNamer); ok && arqueo.CashierId != 0 {
		name, err := namer.CashierName(ctx, arqueo.CashierId)
		if err != nil {
			config.LogError(config.GetLogger(), "reports", "BuildArqueoReport", "resolve cashier name", arqueo.CashierId, err)
		} else {
			report.CashierName = name
		}
	}

	if !report.LedgerTotal.Equal(arqueo.SystemTotal) {
		config.GetLogger().WithFields(logrus.Fields{
			"module":       "reports",
			"funcName":     "BuildArqueoReport",
			"arqueo_id":    arqueo.ID,
			"system_total": arqueo.SystemTotal.StringFixed(2),
			"ledger_total": report.LedgerTotal.StringFixed(2),
		}).Warn("confirmed sales do not add up to the stored system total")
	}

	span.SetAttributes(attribute.Int("report.sales", len(report.Sales)))
	return report, nil
}
