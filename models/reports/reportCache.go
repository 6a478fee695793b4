package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func logSlowReport(ctx context.Context, name string, started time.Time, extra map[string]any) {
	d := time.Since(started)
	if d < config.ReportSlowThreshold() {
		return
	}
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	fields := logrus.Fields{
		"name":           name,
		"ms":             d.Milliseconds(),
		"correlation_id": cid,
		"extra":          extra,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields["trace_id"] = sc.TraceID().String()
	}
	config.GetLogger().WithFields(fields).Warn("slow_report")
}

// swapped in tests
var (
	cacheGet    = config.GetRedisObject
	cacheSet    = config.SetRedisObject
	cacheRemove = config.RemoveRedisKey
)

func arqueoReportKey(arqueoId int) string {
	return fmt.Sprintf("report:arqueo:%d", arqueoId)
}

// GetArqueoReport returns the cached report for a closed arqueo or builds it.
// Closed arqueos never change, so an entry only goes away on delete or expiry.
// Open arqueos are always rebuilt: their totals and sales are still moving.
func GetArqueoReport(ctx context.Context, src SalesSource, arqueo *models.Arqueo, loc *time.Location) (*ArqueoReport, error) {
	if arqueo == nil {
		return BuildArqueoReport(ctx, src, arqueo, loc)
	}

	ctx, span := tracer.Start(ctx, "GetArqueoReport")
	defer span.End()

	start := time.Now()
	defer logSlowReport(ctx, "arqueo_report", start, map[string]any{
		"arqueo_id": arqueo.ID,
	})

	if !config.ReportCacheEnabled() || arqueo.Status != models.ArqueoStatusClosed {
		return BuildArqueoReport(ctx, src, arqueo, loc)
	}

	key := arqueoReportKey(arqueo.ID)
	var cached ArqueoReport
	if ok, err := cacheGet(key, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		config.LogError(config.GetLogger(), "reports", "GetArqueoReport", "read cache", key, err)
	}

	report, err := BuildArqueoReport(ctx, src, arqueo, loc)
	if err != nil {
		return nil, err
	}
	if err := cacheSet(key, report, config.ReportCacheTTL()); err != nil {
		config.LogError(config.GetLogger(), "reports", "GetArqueoReport", "write cache", key, err)
	}
	return report, nil
}

func InvalidateArqueoReport(arqueoId int) error {
	return cacheRemove(arqueoReportKey(arqueoId))
}
