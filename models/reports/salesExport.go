package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const SalesSheetName = "Ventas"

// SalesExportFilename names the sheet after its range; open bounds read "inicio" and "hoy".
func SalesExportFilename(rng utils.DateRange, loc *time.Location) string {
	from, to := "inicio", "hoy"
	if rng.From != nil {
		from = rng.From.In(loc).Format(utils.DateLayout)
	}
	if rng.To != nil {
		to = rng.To.In(loc).Format(utils.DateLayout)
	}
	return fmt.Sprintf("Ventas_%s_%s.xlsx", from, to)
}

// ExportSales writes the given sales, in the given order, as one sheet.
func ExportSales(sales []*models.Sale, out io.Writer) error {
	loc := config.AppLocation()

	f := excelize.NewFile()
	defer f.Close()

	fail := func(context string, err error) error {
		config.LogError(config.GetLogger(), "reports", "ExportSales", context, nil, err)
		return utils.ExportError("sales workbook", err)
	}

	if err := f.SetSheetName("Sheet1", SalesSheetName); err != nil {
		return fail("rename sheet", err)
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		return fail("styles", err)
	}
	w := &sheetWriter{f: f, sheet: SalesSheetName, styles: styles}

	w.headers(1, "N°", "Fecha", "Cliente", "Método", "Estado", "Total")
	row := 2
	total := decimal.Zero
	for _, s := range sales {
		if s == nil {
			continue
		}
		w.value("A", row, s.ID)
		w.value("B", row, s.SaleDate.In(loc).Format(utils.DisplayDateLayout+" 15:04"))
		w.value("C", row, s.CustomerName)
		w.value("D", row, s.PaymentMethod.Label())
		w.value("E", row, string(s.Status))
		w.money("F", row, s.Total, styles.money)
		total = total.Add(s.Total)
		row++
	}
	w.value("E", row, "Total")
	w.style("E", "E", row, styles.label)
	w.money("F", row, total, styles.total)
	if w.err != nil {
		return fail("layout", w.err)
	}

	widths := map[string]float64{"A": 8, "B": 18, "C": 28, "D": 16, "E": 14, "F": 14}
	for col, width := range widths {
		if err := f.SetColWidth(SalesSheetName, col, col, width); err != nil {
			return fail("column width", err)
		}
	}
	if err := printablePage(f, SalesSheetName, row); err != nil {
		return fail("page layout", err)
	}

	if err := f.Write(out); err != nil {
		return fail("write", err)
	}
	return nil
}
