package reports

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ArqueoSheetName = "Arqueo"
	XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// excelize paper size code for A4
	paperSizeA4 = 9
)

// ErrNoReport is returned when an export is asked for a report that was never built.
var ErrNoReport = errors.New("arqueo report not found")

func ArqueoReportFilename(arqueoId int) string {
	return fmt.Sprintf("Arqueo_%d.xlsx", arqueoId)
}

type sheetStyles struct {
	title   int
	section int
	header  int
	label   int
	money   int
	total   int
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	var s sheetStyles
	var err error
	border := []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}}

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return nil, err
	}
	if s.section, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return nil, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
	}); err != nil {
		return nil, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return nil, err
	}
	// builtin format 4 is #,##0.00
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return nil, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 4,
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

// sheetWriter keeps the first error so layout code can stay linear.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles *sheetStyles
	err    error
}

func (w *sheetWriter) cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func (w *sheetWriter) value(col string, row int, v any) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, w.cell(col, row), v)
}

func (w *sheetWriter) money(col string, row int, d decimal.Decimal, style int) {
	if w.err != nil {
		return
	}
	cell := w.cell(col, row)
	if w.err = w.f.SetCellFloat(w.sheet, cell, d.Round(2).InexactFloat64(), 2, 64); w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func (w *sheetWriter) style(fromCol string, toCol string, row int, style int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, w.cell(fromCol, row), w.cell(toCol, row), style)
}

func (w *sheetWriter) merge(fromCol string, toCol string, row int) {
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, w.cell(fromCol, row), w.cell(toCol, row))
}

func (w *sheetWriter) section(row int, title string) {
	w.value("A", row, title)
	w.merge("A", "F", row)
	w.style("A", "F", row, w.styles.section)
}

func (w *sheetWriter) headers(row int, titles ...string) {
	cols := []string{"A", "B", "C", "D", "E", "F"}
	for i, t := range titles {
		w.value(cols[i], row, t)
	}
	w.style("A", cols[len(titles)-1], row, w.styles.header)
}

// printablePage fixes the sheet to one A4 portrait page wide.
func printablePage(f *excelize.File, sheet string, lastRow int) error {
	size := paperSizeA4
	orientation := "portrait"
	fitWidth := 1
	fitHeight := 0
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToWidth:  &fitWidth,
		FitToHeight: &fitHeight,
	}); err != nil {
		return err
	}
	fitToPage := true
	if err := f.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fitToPage}); err != nil {
		return err
	}
	top, bottom, side := 0.75, 0.75, 0.5
	centered := true
	if err := f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Top:          &top,
		Bottom:       &bottom,
		Left:         &side,
		Right:        &side,
		Horizontally: &centered,
	}); err != nil {
		return err
	}
	if err := f.SetHeaderFooter(sheet, &excelize.HeaderFooterOptions{
		OddFooter: "&CPágina &P de &N",
	}); err != nil {
		return err
	}
	return f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: fmt.Sprintf("'%s'!$A$1:$F$%d", sheet, lastRow),
		Scope:    sheet,
	})
}

func formatTime(t *time.Time, layout string, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(layout)
}

// NewArqueoWorkbook lays the report out on a single printable sheet.
func NewArqueoWorkbook(report *ArqueoReport) (*excelize.File, error) {
	if report == nil {
		return nil, ErrNoReport
	}
	loc := config.AppLocation()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ArqueoSheetName); err != nil {
		f.Close()
		return nil, err
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w := &sheetWriter{f: f, sheet: ArqueoSheetName, styles: styles}

	widths := map[string]float64{"A": 24, "B": 16, "C": 22, "D": 16, "E": 18, "F": 14}
	for col, width := range widths {
		if err := f.SetColWidth(ArqueoSheetName, col, col, width); err != nil {
			f.Close()
			return nil, err
		}
	}

	cashier := report.CashierName
	if cashier == "" {
		cashier = "-"
	}
	opened := report.OpenedAt

	w.value("A", 1, fmt.Sprintf("ARQUEO DE CAJA N° %d", report.ArqueoId))
	w.merge("A", "F", 1)
	w.style("A", "F", 1, styles.title)
	w.value("A", 2, "Fecha:")
	w.value("B", 2, report.Date.In(loc).Format(utils.DisplayDateLayout))
	w.value("D", 2, "Cajero:")
	w.value("E", 2, cashier)
	w.value("A", 3, "Apertura:")
	w.value("B", 3, formatTime(&opened, "15:04", loc))
	w.value("D", 3, "Cierre:")
	w.value("E", 3, formatTime(report.ClosedAt, "15:04", loc))
	w.value("A", 4, "Estado:")
	w.value("B", 4, string(report.Status))
	w.style("A", "A", 2, styles.label)
	w.style("A", "A", 3, styles.label)
	w.style("A", "A", 4, styles.label)
	w.style("D", "D", 2, styles.label)
	w.style("D", "D", 3, styles.label)

	w.section(6, "RESUMEN")
	figures := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total ventas", report.TotalSales},
		{"Ventas en efectivo", report.CashSales},
		{"Total transferencias", report.TransferTotal},
		{"Total contado", report.CountedTotal},
		{"Diferencia", report.Difference},
	}
	row := 7
	for _, fig := range figures {
		w.value("A", row, fig.label)
		w.money("B", row, fig.value, styles.money)
		row++
	}
	w.style("A", "A", row-1, styles.label)

	row++
	w.section(row, "DENOMINACIONES")
	row++
	w.headers(row, "Denominación", "Cantidad", "Subtotal")
	row++
	cash := decimal.Zero
	for _, d := range report.Denominations {
		w.value("A", row, d.Label)
		w.value("B", row, d.Count)
		w.money("C", row, d.Subtotal, styles.money)
		cash = cash.Add(d.Subtotal)
		row++
	}
	w.value("A", row, "Total efectivo")
	w.money("C", row, cash, styles.total)
	row += 2

	w.section(row, "TRANSFERENCIAS")
	row++
	w.headers(row, "Cliente", "Método", "Referencia", "Banco", "Monto")
	row++
	for _, t := range report.Transfers {
		if t == nil {
			continue
		}
		w.value("A", row, t.CustomerName)
		w.value("B", row, t.PaymentMethod)
		w.value("C", row, t.ReferenceNumber)
		w.value("D", row, t.BankName)
		w.money("E", row, t.Amount, styles.money)
		row++
	}
	w.value("A", row, "Total transferencias")
	w.money("E", row, report.TransferTotal, styles.total)
	row += 2

	w.section(row, "VENTAS DEL DÍA")
	row++
	w.headers(row, "N°", "Hora", "Cliente", "Método", "Total")
	row++
	for _, s := range report.Sales {
		saleDate := s.SaleDate
		w.value("A", row, s.ID)
		w.value("B", row, formatTime(&saleDate, "15:04", loc))
		w.value("C", row, s.CustomerName)
		w.value("D", row, s.PaymentMethod.Label())
		w.money("E", row, s.Total, styles.money)
		row++
	}
	w.value("A", row, "Total registrado")
	w.money("E", row, report.LedgerTotal, styles.total)
	lastRow := row

	if report.Notes != "" {
		row += 2
		w.value("A", row, "Observaciones:")
		w.style("A", "A", row, styles.label)
		w.value("B", row, report.Notes)
		w.merge("B", "F", row)
		lastRow = row
	}

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	if err := printablePage(f, ArqueoSheetName, lastRow); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ExportArqueoReport writes the report workbook to out.
func ExportArqueoReport(report *ArqueoReport, out io.Writer) error {
	f, err := NewArqueoWorkbook(report)
	if err != nil {
		config.LogError(config.GetLogger(), "reports", "ExportArqueoReport", "build workbook", nil, err)
		return utils.ExportError("build arqueo workbook", err)
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		config.LogError(config.GetLogger(), "reports", "ExportArqueoReport", "write workbook", report.ArqueoId, err)
		return utils.ExportError("write arqueo workbook", err)
	}
	return nil
}
