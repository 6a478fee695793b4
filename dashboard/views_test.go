package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
)

func TestArqueoViewPagination(t *testing.T) {
	src := &fakeProvider{arqueos: arqueosByDay(23)}
	v := NewArqueoView(src, testOptions())

	p, err := v.Load(context.Background(), ArqueoFilter{Page: 3})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Items) != 3 || p.Label != "Página 3 de 3" {
		t.Fatalf("expected 3 items on page 3 of 3, got %d %q", len(p.Items), p.Label)
	}

	p = v.SetPage(1)
	if len(p.Items) != 10 || p.Items[0].ID != 23 {
		t.Fatalf("unexpected first page %d items, first %d", len(p.Items), p.Items[0].ID)
	}
	if src.calls != 1 {
		t.Fatalf("SetPage should not fetch, calls=%d", src.calls)
	}
}

func TestArqueoViewRangeAndSearch(t *testing.T) {
	src := &fakeProvider{arqueos: arqueosByDay(40)}
	v := NewArqueoView(src, testOptions())

	p, err := v.Load(context.Background(), ArqueoFilter{Range: utils.RangeYesterday})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.TotalItems != 1 || p.Items[0].ID != 39 {
		t.Fatalf("expected only yesterday's record, got %+v", p.Items)
	}
	wantFrom := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	if src.lastFrom == nil || !src.lastFrom.Equal(wantFrom) {
		t.Fatalf("expected bounds passed to provider, got %v", src.lastFrom)
	}

	all, err := v.Load(context.Background(), ArqueoFilter{Range: utils.RangeLast30Days})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	empty, err := v.Load(context.Background(), ArqueoFilter{Range: utils.RangeLast30Days, Search: "  "})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if all.TotalItems != 30 || empty.TotalItems != all.TotalItems {
		t.Fatalf("empty search should return the full range: %d vs %d", empty.TotalItems, all.TotalItems)
	}

	found, err := v.Load(context.Background(), ArqueoFilter{Range: utils.RangeLast30Days, Search: "10/03/2024"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found.TotalItems != 1 || found.Items[0].ID != 35 {
		t.Fatalf("expected record of 10/03/2024, got %+v", found.Items)
	}
}

func TestArqueoViewInvalidCustomRange(t *testing.T) {
	src := &fakeProvider{}
	v := NewArqueoView(src, testOptions())
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := v.Load(context.Background(), ArqueoFilter{Range: utils.RangeCustom, From: &from, To: &to})
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = v.Load(context.Background(), ArqueoFilter{Range: utils.RangeCustom, From: &from})
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected validation error for missing hasta, got %v", err)
	}
	if src.calls != 0 {
		t.Fatalf("invalid ranges must not reach the provider")
	}
}

func TestArqueoViewFetchFailureResetsList(t *testing.T) {
	src := &fakeProvider{arqueos: arqueosByDay(5)}
	v := NewArqueoView(src, testOptions())
	if _, err := v.Load(context.Background(), ArqueoFilter{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := v.Select(3); err != nil {
		t.Fatalf("Select: %v", err)
	}

	src.listErr = errors.New("connection reset")
	p, err := v.Load(context.Background(), ArqueoFilter{})
	if !errors.Is(err, utils.ErrFetchFailed) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if len(p.Items) != 0 || v.State().Page.TotalItems != 0 || v.Selected() != nil {
		t.Fatalf("expected list and selection reset after a failed fetch")
	}
}

func TestArqueoViewDeleteTwice(t *testing.T) {
	src := &fakeProvider{arqueos: arqueosByDay(3)}
	v := NewArqueoView(src, testOptions())
	if _, err := v.Load(context.Background(), ArqueoFilter{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := v.Select(2); err != nil {
		t.Fatalf("Select: %v", err)
	}

	p, err := v.Delete(context.Background(), 2)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if p.TotalItems != 2 || v.Selected() != nil {
		t.Fatalf("expected record and selection gone, got %d items", p.TotalItems)
	}

	_, err = v.Delete(context.Background(), 2)
	if !errors.Is(err, utils.ErrDeleteFailed) {
		t.Fatalf("expected delete failure on second delete, got %v", err)
	}

	next, err := v.Load(context.Background(), ArqueoFilter{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, a := range next.Items {
		if a.ID == 2 {
			t.Fatalf("deleted record came back on the next fetch")
		}
	}
}

func TestArqueoViewStaleLoadIsDiscarded(t *testing.T) {
	src := &fakeProvider{arqueos: arqueosByDay(3), blockOn: 1, started: make(chan struct{})}
	v := NewArqueoView(src, testOptions())

	errc := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background(), ArqueoFilter{Search: "1"})
		errc <- err
	}()
	<-src.started

	p, err := v.Load(context.Background(), ArqueoFilter{})
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if p.TotalItems != 3 {
		t.Fatalf("expected newest load to win, got %d items", p.TotalItems)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, ErrStaleResponse) {
			t.Fatalf("expected stale response for the overtaken load, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("first load was not cancelled")
	}
	if st := v.State(); st.Filter.Search != "" || st.Page.TotalItems != 3 {
		t.Fatalf("stale load overwrote state: %+v", st.Filter)
	}
}

func TestSalesViewSortAndFilter(t *testing.T) {
	src := &fakeProvider{sales: []*models.Sale{
		sale(1, 0, "30", models.PaymentMethodCash),
		sale(2, 1, "10", models.PaymentMethodCard),
		sale(3, 2, "20", models.PaymentMethodCash),
		sale(4, 40, "99", models.PaymentMethodCash),
	}}
	pending := sale(5, 0, "1", models.PaymentMethodCash)
	pending.Status = models.SaleStatusPending
	src.sales = append(src.sales, pending)

	v := NewSalesView(src, testOptions())
	p, err := v.Load(context.Background(), SalesFilter{Range: utils.RangeLast7Days})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ids(p.Items); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("expected confirmed sales in range newest first, got %v", got)
	}

	state, p := v.ToggleSort(SortByTotal)
	if state.Dir != SortAsc || ids(p.Items)[0] != 2 {
		t.Fatalf("expected total ascending, got %+v %v", state, ids(p.Items))
	}
	state, p = v.ToggleSort(SortByTotal)
	if state.Dir != SortDesc || ids(p.Items)[0] != 1 {
		t.Fatalf("expected total descending, got %+v %v", state, ids(p.Items))
	}

	p, err = v.Load(context.Background(), SalesFilter{Range: utils.RangeLast7Days, Methods: []models.PaymentMethod{models.PaymentMethodCash}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ids(p.Items); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("expected cash sales by total desc, got %v", got)
	}
	if len(v.Sorted()) != 2 {
		t.Fatalf("Sorted should return the whole filtered list")
	}
}

func TestSalesViewDetailAndDelete(t *testing.T) {
	src := &fakeProvider{sales: []*models.Sale{sale(1, 0, "10", models.PaymentMethodCash)}}
	v := NewSalesView(src, testOptions())

	s, err := v.Detail(context.Background(), 1)
	if err != nil || s.ID != 1 {
		t.Fatalf("Detail: %v %v", s, err)
	}
	_, err = v.Detail(context.Background(), 9)
	if !errors.Is(err, utils.ErrFetchFailed) || !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected fetch failure wrapping not found, got %v", err)
	}

	if err := v.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := v.Delete(context.Background(), 1); !errors.Is(err, utils.ErrDeleteFailed) {
		t.Fatalf("expected delete failure, got %v", err)
	}
}

func TestSalesViewFetchFailure(t *testing.T) {
	src := &fakeProvider{sales: []*models.Sale{sale(1, 0, "10", models.PaymentMethodCash)}}
	v := NewSalesView(src, testOptions())
	if _, err := v.Load(context.Background(), SalesFilter{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	src.listErr = errors.New("timeout")
	p, err := v.Load(context.Background(), SalesFilter{})
	if !errors.Is(err, utils.ErrFetchFailed) || len(p.Items) != 0 || len(v.Sorted()) != 0 {
		t.Fatalf("expected reset list and fetch failure, got %v", err)
	}
}

func TestArqueoViewSetSelected(t *testing.T) {
	v := NewArqueoView(&fakeProvider{}, testOptions())
	a := &models.Arqueo{ID: 42}
	v.SetSelected(a)
	if v.Selected() != a || v.State().Selected != a {
		t.Fatalf("expected record 42 selected")
	}
}
