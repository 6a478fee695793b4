package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/pos_backend/dashboard"
	"github.com/mmdatafocus/pos_backend/middlewares"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/models/reports"
	"github.com/mmdatafocus/pos_backend/utils"
)

// dataProvider is everything the handlers read from or delete through.
type dataProvider interface {
	dashboard.ArqueoSource
	dashboard.SalesSource
	GetArqueo(ctx context.Context, id int) (*models.Arqueo, error)
}

type app struct {
	provider  dataProvider
	sales     middlewares.NamedSales
	sessions  *dashboard.Sessions
	opts      dashboard.Options
	exportDir string
}

func newApp(provider dataProvider, opts dashboard.Options, sessionTTL time.Duration, exportDir string) *app {
	sales := middlewares.NamedSales{SalesProvider: provider}
	return &app{
		provider:  provider,
		sales:     sales,
		sessions:  dashboard.NewSessions(provider, sales, opts, sessionTTL),
		opts:      opts,
		exportDir: exportDir,
	}
}

func (a *app) location() *time.Location {
	if a.opts.Location != nil {
		return a.opts.Location
	}
	return time.UTC
}

// session returns the dashboard session of the request; SessionMiddleware guarantees an id.
func (a *app) session(c *gin.Context) *dashboard.Session {
	sid, _ := utils.GetSessionIdFromContext(c.Request.Context())
	return a.sessions.Get(sid)
}

// respondError turns an error into the transient notification body {"error", "kind"}.
func respondError(c *gin.Context, err error) {
	kind := utils.ErrorKind(err)
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, utils.ErrValidation):
		status = http.StatusBadRequest
	case dashboard.IsStale(err):
		status = http.StatusConflict
		kind = "stale"
	case errors.Is(err, reports.ErrExportInProgress), errors.Is(err, models.ErrRecordInUse):
		status = http.StatusConflict
	case errors.Is(err, utils.ErrorRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, utils.ErrFetchFailed):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := utils.ParseId(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}

type rangeQuery struct {
	Range string `form:"rango" validate:"omitempty,oneof=hoy ayer 7dias 30dias mes personalizado"`
	From  string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	To    string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// resolve parses desde/hasta; either one without rango means a custom range.
func (q rangeQuery) resolve(loc *time.Location) (string, *time.Time, *time.Time, error) {
	preset := q.Range
	var from, to *time.Time
	if q.From != "" {
		t, err := utils.ParseDate(q.From, loc)
		if err != nil {
			return "", nil, nil, err
		}
		from = &t
	}
	if q.To != "" {
		t, err := utils.ParseDate(q.To, loc)
		if err != nil {
			return "", nil, nil, err
		}
		to = &t
	}
	if preset == utils.RangeNone && (from != nil || to != nil) {
		preset = utils.RangeCustom
	}
	return preset, from, to, nil
}

type pageQuery struct {
	Page     int `form:"page" validate:"gte=0"`
	PageSize int `form:"page_size" validate:"gte=0,lte=100"`
}

// bindQuery binds and validates query parameters into dest, answering 400 on failure.
func bindQuery(c *gin.Context, dest any) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		respondError(c, utils.ValidationError(err.Error()))
		return false
	}
	if err := utils.ValidateStruct(dest); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, reports.XlsxContentType, data)
}

func healthzHandler(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}
