package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/dashboard"
	"github.com/mmdatafocus/pos_backend/middlewares"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort          = "8080"
	sessionSweepInterval = time.Minute
)

func corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	// In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// deny all if not configured in production
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = utils.SplitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", middlewares.SessionIdHeader, middlewares.CorrelationIdHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", middlewares.SessionIdHeader, middlewares.CorrelationIdHeader)
	if !corsConfig.AllowAllOrigins {
		corsConfig.AllowCredentials = true
	}
	return corsConfig
}

// newRouter wires the API. ready gates every route but /healthz until dependencies are up.
func newRouter(a *app, ready func() bool, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		if !ready() {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", healthzHandler)

	r.Use(cors.New(corsConfig()))
	r.Use(middlewares.SessionMiddleware())
	r.Use(middlewares.LoaderMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/arqueos", a.listArqueosHandler())
	api.GET("/arqueos/estado", a.arqueoStateHandler())
	api.POST("/arqueos/pagina", a.arqueoPageHandler())
	api.DELETE("/arqueos/:id", a.deleteArqueoHandler())
	api.GET("/arqueos/:id/reporte", a.arqueoReportHandler())
	api.GET("/arqueos/:id/reporte/export", a.downloadArqueoReportHandler())
	api.POST("/arqueos/:id/reporte/export", a.exportArqueoReportHandler())

	api.GET("/ventas", a.listSalesHandler())
	api.GET("/ventas/export", a.exportSalesHandler())
	api.POST("/ventas/orden", a.toggleSalesSortHandler())
	api.POST("/ventas/pagina", a.salesPageHandler())
	api.GET("/ventas/:id", a.saleDetailHandler())
	api.DELETE("/ventas/:id", a.deleteSaleHandler())

	r.NoRoute(customNotFoundHandler)
	return r
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	a := newApp(models.Provider{}, dashboard.Options{
		Location: config.AppLocation(),
		PageSize: config.DashboardPageSize(),
	}, config.SessionTTL(), config.ExportDir())

	// Start the HTTP server ASAP; until the DB is ready app endpoints return 503.
	r := newRouter(a, func() bool { return config.GetDB() != nil }, logger)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	startDependencies(sweepCtx, a, startupDeps{
		connectDB:    config.ConnectDatabaseWithRetry,
		connectRedis: config.ConnectRedisWithRetry,
		migrate:      models.MigrateTable,
		sweepEvery:   sessionSweepInterval,
	}, logger)

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/api")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop background workers first so they don't start new work while we're draining.
	cancelSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

type startupDeps struct {
	connectDB    func()
	connectRedis func()
	migrate      func()
	sweepEvery   time.Duration
}

// startDependencies runs once the port is open. The session sweeper starts first and
// Redis connects in the background: it is optional and its retry loop never gives up.
// Returns after the database is connected and migrations ran.
func startDependencies(ctx context.Context, a *app, deps startupDeps, logger *logrus.Logger) {
	go a.sessions.Run(ctx, deps.sweepEvery)
	go deps.connectRedis()

	deps.connectDB()
	// The POS application owns the schema; only migrate when asked to.
	if config.AutoMigrate() && !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		deps.migrate()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Info("skipping AutoMigrate on startup")
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"correlation_id": cid,
				"path":           c.FullPath(),
			}).Error(c.Errors.String())
		}
	}
}
