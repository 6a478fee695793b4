package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
)

type ArqueoFilter struct {
	Range    string     `json:"rango"`
	From     *time.Time `json:"desde"`
	To       *time.Time `json:"hasta"`
	Search   string     `json:"busqueda"`
	Page     int        `json:"pagina"`
	PageSize int        `json:"tamano_pagina"`
}

type SalesFilter struct {
	Range    string                 `json:"rango"`
	From     *time.Time             `json:"desde"`
	To       *time.Time             `json:"hasta"`
	Methods  []models.PaymentMethod `json:"metodos"`
	Sort     *SortState             `json:"orden,omitempty"`
	Page     int                    `json:"pagina"`
	PageSize int                    `json:"tamano_pagina"`
}

// MatchesSearch reports whether q occurs in the arqueo id or in its reconciliation
// date written as 2006-01-02 or 02/01/2006. An empty q matches everything.
func MatchesSearch(a *models.Arqueo, q string, loc *time.Location) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if a == nil {
		return false
	}
	day := a.ReconciliationDate(loc)
	for _, field := range []string{
		strconv.Itoa(a.ID),
		day.Format(utils.DateLayout),
		day.Format(utils.DisplayDateLayout),
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterArqueos keeps, in order, the records opened inside rng that match search.
func FilterArqueos(records []*models.Arqueo, rng utils.DateRange, search string, loc *time.Location) []*models.Arqueo {
	out := make([]*models.Arqueo, 0, len(records))
	for _, a := range records {
		if a == nil || !rng.Contains(a.OpenedAt) {
			continue
		}
		if !MatchesSearch(a, search, loc) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FilterSales keeps, in order, the sales dated inside rng paid with one of methods.
// No methods means any method.
func FilterSales(sales []*models.Sale, rng utils.DateRange, methods []models.PaymentMethod) []*models.Sale {
	allowed := make(map[models.PaymentMethod]bool, len(methods))
	for _, m := range methods {
		allowed[m] = true
	}
	out := make([]*models.Sale, 0, len(sales))
	for _, s := range sales {
		if s == nil || !rng.Contains(s.SaleDate) {
			continue
		}
		if len(allowed) > 0 && !allowed[s.PaymentMethod] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ParsePaymentMethods reads a comma separated method list.
func ParsePaymentMethods(csv string) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	for _, part := range utils.UniqueSlice(utils.SplitAndTrim(csv)) {
		m, err := models.ParsePaymentMethod(part)
		if err != nil {
			return nil, utils.ValidationError(err.Error())
		}
		out = append(out, m)
	}
	return out, nil
}
