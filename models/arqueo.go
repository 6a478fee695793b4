package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Arqueo is a cash-register reconciliation: what the system expected in the drawer
// against what the cashier counted, broken down by denomination.
type Arqueo struct {
	ID           int             `gorm:"primary_key" json:"id"`
	CashierId    int             `gorm:"index;default:0" json:"cajero_id"`
	OpenedAt     time.Time       `gorm:"index;not null" json:"fecha_apertura"`
	ClosedAt     *time.Time      `json:"fecha_cierre"`
	SystemTotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_sistema"`
	CountedTotal decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_contado"`
	// counted minus system, computed when the register is closed
	Difference decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"diferencia"`

	Bills100         int             `gorm:"default:0" json:"billetes_100"`
	Bills100Subtotal decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_billetes_100"`
	Bills50          int             `gorm:"default:0" json:"billetes_50"`
	Bills50Subtotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_billetes_50"`
	Bills20          int             `gorm:"default:0" json:"billetes_20"`
	Bills20Subtotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_billetes_20"`
	Bills10          int             `gorm:"default:0" json:"billetes_10"`
	Bills10Subtotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_billetes_10"`
	Bills5           int             `gorm:"default:0" json:"billetes_5"`
	Bills5Subtotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_billetes_5"`
	Coins1           int             `gorm:"default:0" json:"monedas_1"`
	Coins1Subtotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_monedas_1"`
	Coins050         int             `gorm:"column:coins_050;default:0" json:"monedas_050"`
	Coins050Subtotal decimal.Decimal `gorm:"column:coins_050_subtotal;type:decimal(20,4);default:0" json:"subtotal_monedas_050"`
	Coins025         int             `gorm:"column:coins_025;default:0" json:"monedas_025"`
	Coins025Subtotal decimal.Decimal `gorm:"column:coins_025_subtotal;type:decimal(20,4);default:0" json:"subtotal_monedas_025"`

	Status    ArqueoStatus      `gorm:"type:enum('abierto','cerrado');not null;default:'abierto'" json:"estado"`
	Notes     string            `gorm:"type:text" json:"observaciones"`
	Transfers []*ArqueoTransfer `gorm:"foreignKey:ArqueoId" json:"transferencias"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Arqueo) TableName() string {
	return "arqueos"
}

// ArqueoTransfer is a non-cash payment line recorded against a reconciliation.
type ArqueoTransfer struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ArqueoId        int             `gorm:"index;not null" json:"arqueo_id"`
	CustomerName    string          `gorm:"size:150" json:"cliente"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monto"`
	PaymentMethod   string          `gorm:"size:50" json:"metodo_pago"`
	ReferenceNumber string          `gorm:"size:100" json:"numero_referencia"`
	BankName        string          `gorm:"size:100" json:"banco"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ArqueoTransfer) TableName() string {
	return "arqueo_transferencias"
}

// Denomination is one row of the counted-cash breakdown.
type Denomination struct {
	Label    string          `json:"denominacion"`
	Value    decimal.Decimal `json:"valor"`
	Count    int             `json:"cantidad"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Denominations returns bills 100, 50, 20, 10, 5 then coins 1, 0.50, 0.25.
func (a Arqueo) Denominations() []Denomination {
	return []Denomination{
		{Label: "Billete 100", Value: decimal.NewFromInt(100), Count: a.Bills100, Subtotal: a.Bills100Subtotal},
		{Label: "Billete 50", Value: decimal.NewFromInt(50), Count: a.Bills50, Subtotal: a.Bills50Subtotal},
		{Label: "Billete 20", Value: decimal.NewFromInt(20), Count: a.Bills20, Subtotal: a.Bills20Subtotal},
		{Label: "Billete 10", Value: decimal.NewFromInt(10), Count: a.Bills10, Subtotal: a.Bills10Subtotal},
		{Label: "Billete 5", Value: decimal.NewFromInt(5), Count: a.Bills5, Subtotal: a.Bills5Subtotal},
		{Label: "Moneda 1", Value: decimal.NewFromInt(1), Count: a.Coins1, Subtotal: a.Coins1Subtotal},
		{Label: "Moneda 0.50", Value: decimal.NewFromFloat(0.5), Count: a.Coins050, Subtotal: a.Coins050Subtotal},
		{Label: "Moneda 0.25", Value: decimal.NewFromFloat(0.25), Count: a.Coins025, Subtotal: a.Coins025Subtotal},
	}
}

func (a Arqueo) TransferTotal() decimal.Decimal {
	total := decimal.Zero
	for _, t := range a.Transfers {
		if t == nil {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// ReconciliationDate is the calendar day the register was opened, in loc.
func (a Arqueo) ReconciliationDate(loc *time.Location) time.Time {
	return utils.StartOfDay(a.OpenedAt, loc)
}

// ListArqueos returns arqueos opened within [from, to] (either bound may be nil), newest first.
func ListArqueos(ctx context.Context, from *time.Time, to *time.Time) ([]*Arqueo, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database is not connected")
	}
	var results []*Arqueo

	dbCtx := db.WithContext(ctx).Preload("Transfers")
	if from != nil {
		dbCtx = dbCtx.Where("opened_at >= ?", *from)
	}
	if to != nil {
		dbCtx = dbCtx.Where("opened_at <= ?", *to)
	}

	err := dbCtx.Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetArqueo(ctx context.Context, id int) (*Arqueo, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database is not connected")
	}
	var result Arqueo
	err := db.WithContext(ctx).Preload("Transfers").First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// DeleteArqueo removes the arqueo and its transfer lines.
func DeleteArqueo(ctx context.Context, id int) (*Arqueo, error) {
	result, err := GetArqueo(ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	err = tx.Where("arqueo_id = ?", result.ID).Delete(&ArqueoTransfer{}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res := tx.Delete(&Arqueo{}, result.ID)
	if res.Error != nil {
		tx.Rollback()
		return nil, deleteErr(res.Error)
	}
	// lost a race with another delete
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	return result, tx.Commit().Error
}
