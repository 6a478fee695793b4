package models

import (
	"context"
	"time"
)

// Provider exposes the package functions as a value so callers can depend on an interface.
type Provider struct{}

func (Provider) ListArqueos(ctx context.Context, from *time.Time, to *time.Time) ([]*Arqueo, error) {
	return ListArqueos(ctx, from, to)
}

func (Provider) GetArqueo(ctx context.Context, id int) (*Arqueo, error) {
	return GetArqueo(ctx, id)
}

func (Provider) DeleteArqueo(ctx context.Context, id int) error {
	_, err := DeleteArqueo(ctx, id)
	return err
}

func (Provider) ListSales(ctx context.Context, status SaleStatus, from *time.Time, to *time.Time, cashierId *int) ([]*Sale, error) {
	return ListSales(ctx, status, from, to, cashierId)
}

func (Provider) GetSaleDetail(ctx context.Context, id int) (*Sale, error) {
	return GetSaleDetail(ctx, id)
}

func (Provider) DeleteSale(ctx context.Context, id int) error {
	_, err := DeleteSale(ctx, id)
	return err
}
