package middlewares

import (
	"context"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
)

type SalesProvider interface {
	ListSales(ctx context.Context, status models.SaleStatus, from *time.Time, to *time.Time, cashierId *int) ([]*models.Sale, error)
	GetSaleDetail(ctx context.Context, id int) (*models.Sale, error)
	DeleteSale(ctx context.Context, id int) error
}

// NamedSales fills customer and cashier display names from the request's loaders.
// Without loaders in the context the sales are returned unnamed.
type NamedSales struct {
	SalesProvider
}

func (n NamedSales) ListSales(ctx context.Context, status models.SaleStatus, from *time.Time, to *time.Time, cashierId *int) ([]*models.Sale, error) {
	sales, err := n.SalesProvider.ListSales(ctx, status, from, to, cashierId)
	if err != nil {
		return nil, err
	}
	FillSaleCustomerNames(ctx, sales)
	return sales, nil
}

func (n NamedSales) GetSaleDetail(ctx context.Context, id int) (*models.Sale, error) {
	sale, err := n.SalesProvider.GetSaleDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	FillSaleCustomerNames(ctx, []*models.Sale{sale})
	return sale, nil
}

func (n NamedSales) CashierName(ctx context.Context, id int) (string, error) {
	cashier, err := GetCashier(ctx, id)
	if err != nil {
		return "", err
	}
	return cashier.Name, nil
}

// FillSaleCustomerNames resolves every distinct customer in one batch.
// A failed lookup leaves the name empty.
func FillSaleCustomerNames(ctx context.Context, sales []*models.Sale) {
	if len(sales) == 0 || For(ctx) == nil {
		return
	}
	ids := make([]int, 0, len(sales))
	for _, s := range sales {
		if s != nil {
			ids = append(ids, s.CustomerId)
		}
	}
	ids = utils.UniqueSlice(ids)

	customers, errs := GetCustomers(ctx, ids)
	names := make(map[int]string, len(ids))
	for i, id := range ids {
		if i < len(errs) && errs[i] != nil {
			config.LogError(config.GetLogger(), "middlewares", "FillSaleCustomerNames", "load customer", id, errs[i])
			continue
		}
		if i < len(customers) && customers[i] != nil {
			names[id] = customers[i].Name
		}
	}
	for _, s := range sales {
		if s != nil {
			s.CustomerName = names[s.CustomerId]
		}
	}
}
