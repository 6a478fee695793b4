package main

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/pos_backend/dashboard"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/models/reports"
)

type salesListQuery struct {
	rangeQuery
	pageQuery
	Methods string `form:"metodos" validate:"max=200"`
	Sort    string `form:"sort" validate:"omitempty,oneof=id fecha total"`
	Dir     string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

type sortRequest struct {
	Key string `form:"key" validate:"required,oneof=id fecha total"`
}

func (q salesListQuery) filter(a *app) (dashboard.SalesFilter, error) {
	preset, from, to, err := q.resolve(a.location())
	if err != nil {
		return dashboard.SalesFilter{}, err
	}
	methods, err := dashboard.ParsePaymentMethods(q.Methods)
	if err != nil {
		return dashboard.SalesFilter{}, err
	}
	filter := dashboard.SalesFilter{
		Range:    preset,
		From:     from,
		To:       to,
		Methods:  methods,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.Sort != "" {
		key, err := dashboard.ParseSortKey(q.Sort)
		if err != nil {
			return dashboard.SalesFilter{}, err
		}
		dir, err := dashboard.ParseSortDir(q.Dir)
		if err != nil {
			return dashboard.SalesFilter{}, err
		}
		filter.Sort = &dashboard.SortState{Key: key, Dir: dir}
	}
	return filter, nil
}

// loadSales binds the query and reloads the session's sales view with it.
func (a *app) loadSales(c *gin.Context) (*dashboard.SalesView, dashboard.Page[*models.Sale], bool) {
	var q salesListQuery
	if !bindQuery(c, &q) {
		return nil, dashboard.Page[*models.Sale]{}, false
	}
	filter, err := q.filter(a)
	if err != nil {
		respondError(c, err)
		return nil, dashboard.Page[*models.Sale]{}, false
	}
	view := a.session(c).Sales
	page, err := view.Load(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return nil, dashboard.Page[*models.Sale]{}, false
	}
	return view, page, true
}

func (a *app) listSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		view, page, ok := a.loadSales(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": page, "orden": view.State().Sort})
	}
}

func (a *app) exportSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		view, _, ok := a.loadSales(c)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := reports.ExportSales(view.Sorted(), &buf); err != nil {
			respondError(c, err)
			return
		}
		sendWorkbook(c, reports.SalesExportFilename(view.State().Range, a.location()), buf.Bytes())
	}
}

// toggleSalesSortHandler flips or changes the sort column and goes back to page 1.
func (a *app) toggleSalesSortHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sortRequest
		if !bindQuery(c, &req) {
			return
		}
		key, err := dashboard.ParseSortKey(req.Key)
		if err != nil {
			respondError(c, err)
			return
		}
		sort, page := a.session(c).Sales.ToggleSort(key)
		c.JSON(http.StatusOK, gin.H{"data": page, "orden": sort})
	}
}

func (a *app) salesPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pageRequest
		if !bindQuery(c, &req) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": a.session(c).Sales.SetPage(req.Page)})
	}
}

func (a *app) saleDetailHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		sale, err := a.session(c).Sales.Detail(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": sale})
	}
}

func (a *app) deleteSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		view := a.session(c).Sales
		if err := view.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": view.State().Page})
	}
}
