package main

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/dashboard"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/models/reports"
	"github.com/mmdatafocus/pos_backend/utils"
)

type arqueoListQuery struct {
	rangeQuery
	pageQuery
	Search string `form:"q" validate:"max=100"`
}

type arqueoExportQuery struct {
	Destination string `form:"destino" validate:"omitempty,oneof=local gcs"`
}

type pageRequest struct {
	Page int `form:"page" json:"page" validate:"gte=1"`
}

func (a *app) listArqueosHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q arqueoListQuery
		if !bindQuery(c, &q) {
			return
		}
		preset, from, to, err := q.resolve(a.location())
		if err != nil {
			respondError(c, err)
			return
		}

		page, err := a.session(c).Arqueos.Load(c.Request.Context(), dashboard.ArqueoFilter{
			Range:    preset,
			From:     from,
			To:       to,
			Search:   q.Search,
			Page:     q.Page,
			PageSize: q.PageSize,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": page})
	}
}

// arqueoPageHandler moves within the loaded list without fetching again.
func (a *app) arqueoPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pageRequest
		if !bindQuery(c, &req) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": a.session(c).Arqueos.SetPage(req.Page)})
	}
}

func (a *app) arqueoStateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": a.session(c).Arqueos.State()})
	}
}

func (a *app) deleteArqueoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}

		page, err := a.session(c).Arqueos.Delete(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := reports.InvalidateArqueoReport(id); err != nil {
			config.LogError(config.GetLogger(), "main", "deleteArqueoHandler", "invalidate report cache", id, err)
		}
		c.JSON(http.StatusOK, gin.H{"data": page})
	}
}

// selectArqueo makes id the session's selected record, loading it directly when it is
// not in the current list.
func (a *app) selectArqueo(c *gin.Context, id int) (*models.Arqueo, error) {
	view := a.session(c).Arqueos
	if arqueo, err := view.Select(id); err == nil {
		return arqueo, nil
	}
	arqueo, err := a.provider.GetArqueo(c.Request.Context(), id)
	if err != nil {
		config.LogError(config.GetLogger(), "main", "selectArqueo", "get arqueo", id, err)
		return nil, utils.FetchError("get arqueo", err)
	}
	view.SetSelected(arqueo)
	return arqueo, nil
}

func (a *app) buildReport(c *gin.Context) (*reports.ArqueoReport, bool) {
	id, ok := pathId(c)
	if !ok {
		return nil, false
	}
	arqueo, err := a.selectArqueo(c, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	report, err := reports.GetArqueoReport(c.Request.Context(), a.sales, arqueo, a.location())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return report, true
}

func (a *app) arqueoReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := a.buildReport(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": report})
	}
}

// downloadArqueoReportHandler sends the workbook as a file download.
func (a *app) downloadArqueoReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := a.buildReport(c)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := reports.ExportArqueoReport(report, &buf); err != nil {
			respondError(c, err)
			return
		}
		sendWorkbook(c, reports.ArqueoReportFilename(report.ArqueoId), buf.Bytes())
	}
}

func (a *app) exportArqueoReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q arqueoExportQuery
		if !bindQuery(c, &q) {
			return
		}
		report, ok := a.buildReport(c)
		if !ok {
			return
		}
		result, err := reports.ExportArqueoReportTo(c.Request.Context(), report, q.Destination, a.exportDir)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}
