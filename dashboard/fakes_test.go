package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
		PageSize: 10,
	}
}

// fakeProvider ignores the date bounds so the views' own range check is exercised.
type fakeProvider struct {
	mu       sync.Mutex
	arqueos  []*models.Arqueo
	sales    []*models.Sale
	listErr  error
	calls    int
	blockOn  int
	started  chan struct{}
	lastFrom *time.Time
	lastTo   *time.Time
}

func (f *fakeProvider) wait(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	if call == f.blockOn {
		close(f.started)
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeProvider) ListArqueos(ctx context.Context, from *time.Time, to *time.Time) ([]*models.Arqueo, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFrom, f.lastTo = from, to
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Arqueo, len(f.arqueos))
	copy(out, f.arqueos)
	return out, nil
}

func (f *fakeProvider) DeleteArqueo(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.arqueos {
		if a.ID == id {
			f.arqueos = append(f.arqueos[:i:i], f.arqueos[i+1:]...)
			return nil
		}
	}
	return utils.ErrorRecordNotFound
}

func (f *fakeProvider) ListSales(ctx context.Context, status models.SaleStatus, from *time.Time, to *time.Time, cashierId *int) ([]*models.Sale, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Sale
	for _, s := range f.sales {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeProvider) GetSaleDetail(ctx context.Context, id int) (*models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, utils.ErrorRecordNotFound
}

func (f *fakeProvider) DeleteSale(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.sales {
		if s.ID == id {
			f.sales = append(f.sales[:i:i], f.sales[i+1:]...)
			return nil
		}
	}
	return utils.ErrorRecordNotFound
}

// arqueosByDay returns n records, newest id first, one per day going back from testNow.
func arqueosByDay(n int) []*models.Arqueo {
	out := make([]*models.Arqueo, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &models.Arqueo{
			ID:       n - i,
			OpenedAt: testNow.AddDate(0, 0, -i),
			Status:   models.ArqueoStatusClosed,
		})
	}
	return out
}

func sale(id int, day int, total string, method models.PaymentMethod) *models.Sale {
	return &models.Sale{
		ID:            id,
		SaleDate:      testNow.AddDate(0, 0, -day),
		PaymentMethod: method,
		Status:        models.SaleStatusConfirmed,
		Total:         decimal.RequireFromString(total),
	}
}
