package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
)

type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"nombre"`
	Document  string    `gorm:"size:20" json:"documento"`
	Phone     string    `gorm:"size:20" json:"telefono"`
	IsActive  *bool     `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string {
	return "clientes"
}

// Cashier is the user operating a register.
type Cashier struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"nombre"`
	Username  string    `gorm:"size:100;uniqueIndex" json:"usuario"`
	IsActive  *bool     `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Cashier) TableName() string {
	return "usuarios"
}

// GetCustomersByIds is the batch fetch behind the customer name loader.
func GetCustomersByIds(ctx context.Context, ids []int) ([]Customer, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database is not connected")
	}
	var results []Customer
	if len(ids) == 0 {
		return results, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetCashiersByIds(ctx context.Context, ids []int) ([]Cashier, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database is not connected")
	}
	var results []Cashier
	if len(ids) == 0 {
		return results, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
