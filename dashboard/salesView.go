package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
)

type SalesState struct {
	Filter     SalesFilter        `json:"filtro"`
	Range      utils.DateRange    `json:"rango"`
	Sort       SortState          `json:"orden"`
	Page       Page[*models.Sale] `json:"pagina"`
	Generation uint64             `json:"generacion"`
}

// SalesView holds one dashboard's confirmed-sales history with its filter, sort and page.
type SalesView struct {
	src  SalesSource
	opts Options

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	filter     SalesFilter
	rng        utils.DateRange
	sort       SortState
	sales      []*models.Sale
	page       int
	pageSize   int
}

func NewSalesView(src SalesSource, opts Options) *SalesView {
	opts = opts.withDefaults()
	return &SalesView{src: src, opts: opts, sort: DefaultSalesSort, page: 1, pageSize: opts.PageSize}
}

// Load fetches confirmed sales for filter, then filters, sorts and paginates them.
// The sort is kept from earlier loads unless filter carries one.
func (v *SalesView) Load(ctx context.Context, filter SalesFilter) (Page[*models.Sale], error) {
	rng, err := utils.ResolveDateRange(filter.Range, filter.From, filter.To, v.opts.Now(), v.opts.Location)
	if err != nil {
		return Page[*models.Sale]{}, err
	}

	v.mu.Lock()
	v.generation++
	gen := v.generation
	if v.cancel != nil {
		v.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()
	defer cancel()

	sales, err := v.src.ListSales(loadCtx, models.SaleStatusConfirmed, rng.From, rng.To, nil)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return Page[*models.Sale]{}, ErrStaleResponse
	}
	v.cancel = nil

	size := filter.PageSize
	if size <= 0 {
		size = v.opts.PageSize
	}
	v.filter = filter
	v.rng = rng
	v.pageSize = size
	if filter.Sort != nil {
		v.sort = *filter.Sort
	}

	if err != nil {
		v.sales = nil
		v.page = 1
		config.LogError(config.GetLogger(), "dashboard", "SalesView.Load", "list sales", filter, err)
		return Paginate(v.sales, 1, size), utils.FetchError("list sales", err)
	}

	v.sales = SortSales(FilterSales(sales, rng, filter.Methods), v.sort)
	p := Paginate(v.sales, filter.Page, size)
	v.page = p.Page
	return p, nil
}

// ToggleSort applies Toggle to the current sort and returns to the first page.
func (v *SalesView) ToggleSort(key SortKey) (SortState, Page[*models.Sale]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = v.sort.Toggle(key)
	v.sales = SortSales(v.sales, v.sort)
	p := Paginate(v.sales, 1, v.pageSize)
	v.page = p.Page
	return v.sort, p
}

func (v *SalesView) SetPage(page int) Page[*models.Sale] {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := Paginate(v.sales, page, v.pageSize)
	v.page = p.Page
	return p
}

// Sorted returns every loaded sale in display order, unpaginated.
func (v *SalesView) Sorted() []*models.Sale {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*models.Sale, len(v.sales))
	copy(out, v.sales)
	return out
}

// Detail fetches one sale with its line items.
func (v *SalesView) Detail(ctx context.Context, id int) (*models.Sale, error) {
	sale, err := v.src.GetSaleDetail(ctx, id)
	if err != nil {
		config.LogError(config.GetLogger(), "dashboard", "SalesView.Detail", "get sale", id, err)
		return nil, utils.FetchError("get sale", err)
	}
	return sale, nil
}

// Delete removes a sale. The dashboard only offers it for pending sales; that is not enforced here.
func (v *SalesView) Delete(ctx context.Context, id int) error {
	if err := v.src.DeleteSale(ctx, id); err != nil {
		config.LogError(config.GetLogger(), "dashboard", "SalesView.Delete", "delete sale", id, err)
		return utils.DeleteError("delete sale", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.sales {
		if s.ID == id {
			v.sales = append(v.sales[:i:i], v.sales[i+1:]...)
			break
		}
	}
	return nil
}

func (v *SalesView) State() SalesState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return SalesState{
		Filter:     v.filter,
		Range:      v.rng,
		Sort:       v.sort,
		Page:       Paginate(v.sales, v.page, v.pageSize),
		Generation: v.generation,
	}
}

// IsStale reports whether err came from a load that a newer load replaced.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleResponse)
}
