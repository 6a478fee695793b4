package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
)

// ErrStaleResponse is returned by a load that was overtaken by a newer one.
var ErrStaleResponse = errors.New("stale response")

type ArqueoState struct {
	Filter     ArqueoFilter         `json:"filtro"`
	Range      utils.DateRange      `json:"rango"`
	Page       Page[*models.Arqueo] `json:"pagina"`
	Selected   *models.Arqueo       `json:"seleccionado"`
	Generation uint64               `json:"generacion"`
}

// ArqueoView holds one dashboard's reconciliation list: filter, filtered records,
// current page and selected record.
type ArqueoView struct {
	src  ArqueoSource
	opts Options

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	filter     ArqueoFilter
	rng        utils.DateRange
	records    []*models.Arqueo
	page       int
	pageSize   int
	selected   *models.Arqueo
}

func NewArqueoView(src ArqueoSource, opts Options) *ArqueoView {
	opts = opts.withDefaults()
	return &ArqueoView{src: src, opts: opts, page: 1, pageSize: opts.PageSize}
}

// Load fetches the records for filter and makes them the current list.
// Starting a load cancels the one in flight; a load that finishes after a newer one
// started returns ErrStaleResponse and leaves the state alone.
func (v *ArqueoView) Load(ctx context.Context, filter ArqueoFilter) (Page[*models.Arqueo], error) {
	rng, err := utils.ResolveDateRange(filter.Range, filter.From, filter.To, v.opts.Now(), v.opts.Location)
	if err != nil {
		return Page[*models.Arqueo]{}, err
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

	records, err := v.src.ListArqueos(loadCtx, rng.From, rng.To)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return Page[*models.Arqueo]{}, ErrStaleResponse
	}
	v.cancel = nil

	size := filter.PageSize
	if size <= 0 {
		size = v.opts.PageSize
	}
	v.filter = filter
	v.rng = rng
	v.pageSize = size

	if err != nil {
		v.records = nil
		v.page = 1
		v.selected = nil
		config.LogError(config.GetLogger(), "dashboard", "ArqueoView.Load", "list arqueos", filter, err)
		return Paginate(v.records, 1, size), utils.FetchError("list arqueos", err)
	}

	v.records = FilterArqueos(records, rng, filter.Search, v.opts.Location)
	if v.selected != nil && v.indexOf(v.selected.ID) < 0 {
		v.selected = nil
	}
	p := Paginate(v.records, filter.Page, size)
	v.page = p.Page
	return p, nil
}

func (v *ArqueoView) indexOf(id int) int {
	for i, a := range v.records {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// SetPage moves within the loaded list without fetching.
func (v *ArqueoView) SetPage(page int) Page[*models.Arqueo] {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := Paginate(v.records, page, v.pageSize)
	v.page = p.Page
	return p
}

// Select marks a loaded record as the one the report is built for.
func (v *ArqueoView) Select(id int) (*models.Arqueo, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.indexOf(id)
	if i < 0 {
		return nil, utils.ErrorRecordNotFound
	}
	v.selected = v.records[i]
	return v.selected, nil
}

// SetSelected selects a record fetched outside the loaded list, e.g. one opened by id.
func (v *ArqueoView) SetSelected(a *models.Arqueo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = a
}

func (v *ArqueoView) Selected() *models.Arqueo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Delete removes the record through the provider and drops it from the loaded list.
// Deleting a record that no longer exists is a delete failure.
func (v *ArqueoView) Delete(ctx context.Context, id int) (Page[*models.Arqueo], error) {
	if err := v.src.DeleteArqueo(ctx, id); err != nil {
		config.LogError(config.GetLogger(), "dashboard", "ArqueoView.Delete", "delete arqueo", id, err)
		v.mu.Lock()
		defer v.mu.Unlock()
		return Paginate(v.records, v.page, v.pageSize), utils.DeleteError("delete arqueo", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexOf(id); i >= 0 {
		v.records = append(v.records[:i:i], v.records[i+1:]...)
	}
	if v.selected != nil && v.selected.ID == id {
		v.selected = nil
	}
	p := Paginate(v.records, v.page, v.pageSize)
	v.page = p.Page
	return p, nil
}

func (v *ArqueoView) State() ArqueoState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ArqueoState{
		Filter:     v.filter,
		Range:      v.rng,
		Page:       Paginate(v.records, v.page, v.pageSize),
		Selected:   v.selected,
		Generation: v.generation,
	}
}
