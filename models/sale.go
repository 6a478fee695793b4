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

type Sale struct {
	ID            int             `gorm:"primary_key" json:"id"`
	SaleDate      time.Time       `gorm:"index;not null" json:"fecha"`
	CustomerId    int             `gorm:"index;default:0" json:"cliente_id"`
	CashierId     int             `gorm:"index;default:0" json:"cajero_id"`
	PaymentMethod PaymentMethod   `gorm:"type:enum('efectivo','tarjeta','transferencia','vale','cupon');not null;default:'efectivo'" json:"metodo_pago"`
	Status        SaleStatus      `gorm:"type:enum('pendiente','confirmada','anulada');not null;default:'pendiente'" json:"estado"`
	Total         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	Details       []*SaleDetail   `gorm:"foreignKey:SaleId" json:"detalles,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// resolved from clientes, not stored
	CustomerName string `gorm:"-" json:"cliente"`
}

func (Sale) TableName() string {
	return "ventas"
}

type SaleDetail struct {
	ID          int             `gorm:"primary_key" json:"id"`
	SaleId      int             `gorm:"index;not null" json:"venta_id"`
	ProductId   int             `gorm:"default:0" json:"producto_id"`
	Description string          `gorm:"size:200" json:"descripcion"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cantidad"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"precio_unitario"`
	Discount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"descuento"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
}

func (SaleDetail) TableName() string {
	return "venta_detalles"
}

// ListSales returns sales with the given status dated within [from, to], optionally for one cashier.
func ListSales(ctx context.Context, status SaleStatus, from *time.Time, to *time.Time, cashierId *int) ([]*Sale, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database is not connected")
	}
	var results []*Sale

	dbCtx := db.WithContext(ctx)
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	if from != nil {
		dbCtx = dbCtx.Where("sale_date >= ?", *from)
	}
	if to != nil {
		dbCtx = dbCtx.Where("sale_date <= ?", *to)
	}
	if cashierId != nil && *cashierId > 0 {
		dbCtx = dbCtx.Where("cashier_id = ?", *cashierId)
	}

	err := dbCtx.Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetSaleDetail(ctx context.Context, id int) (*Sale, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database is not connected")
	}
	var result Sale
	err := db.WithContext(ctx).Preload("Details").First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// DeleteSale removes the sale and its line items. Callers restrict this to pending sales.
func DeleteSale(ctx context.Context, id int) (*Sale, error) {
	result, err := GetSaleDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	err = tx.Where("sale_id = ?", result.ID).Delete(&SaleDetail{}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res := tx.Delete(&Sale{}, result.ID)
	if res.Error != nil {
		tx.Rollback()
		return nil, deleteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	return result, tx.Commit().Error
}
