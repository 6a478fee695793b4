package dashboard

import (
	"sort"
	"strings"

	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
)

type SortKey string

const (
	SortById    SortKey = "id"
	SortByDate  SortKey = "fecha"
	SortByTotal SortKey = "total"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

type SortState struct {
	Key SortKey `json:"campo"`
	Dir SortDir `json:"direccion"`
}

// DefaultSalesSort shows the newest sales first.
var DefaultSalesSort = SortState{Key: SortByDate, Dir: SortDesc}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortById, SortByDate, SortByTotal:
		return k, nil
	default:
		return "", utils.ValidationError("invalid sort key " + s)
	}
}

func ParseSortDir(s string) (SortDir, error) {
	switch d := SortDir(strings.ToLower(strings.TrimSpace(s))); d {
	case SortAsc, SortDesc:
		return d, nil
	case "":
		return SortAsc, nil
	default:
		return "", utils.ValidationError("invalid sort direction " + s)
	}
}

// Toggle selects key: the current key flips direction, any other key starts ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Dir == SortAsc {
			return SortState{Key: key, Dir: SortDesc}
		}
		return SortState{Key: key, Dir: SortAsc}
	}
	return SortState{Key: key, Dir: SortAsc}
}

func lessSale(a, b *models.Sale, key SortKey) bool {
	switch key {
	case SortByDate:
		return a.SaleDate.Before(b.SaleDate)
	case SortByTotal:
		return a.Total.LessThan(b.Total)
	default:
		return a.ID < b.ID
	}
}

// SortSales returns a stably sorted copy of sales.
func SortSales(sales []*models.Sale, state SortState) []*models.Sale {
	out := make([]*models.Sale, len(sales))
	copy(out, sales)
	sort.SliceStable(out, func(i, j int) bool {
		if state.Dir == SortDesc {
			return lessSale(out[j], out[i], state.Key)
		}
		return lessSale(out[i], out[j], state.Key)
	})
	return out
}
