package dashboard

import (
	"context"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
)

// ArqueoSource is the part of the data provider the arqueo view reads from.
type ArqueoSource interface {
	ListArqueos(ctx context.Context, from *time.Time, to *time.Time) ([]*models.Arqueo, error)
	DeleteArqueo(ctx context.Context, id int) error
}

// SalesSource is the part of the data provider the sales view reads from.
type SalesSource interface {
	ListSales(ctx context.Context, status models.SaleStatus, from *time.Time, to *time.Time, cashierId *int) ([]*models.Sale, error)
	GetSaleDetail(ctx context.Context, id int) (*models.Sale, error)
	DeleteSale(ctx context.Context, id int) error
}

type Options struct {
	// Location is the business timezone date ranges resolve in.
	Location *time.Location
	Now      func() time.Time
	PageSize int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = config.AppLocation()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.PageSize <= 0 {
		o.PageSize = config.DashboardPageSize()
	}
	return o
}
