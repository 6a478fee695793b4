package reports

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/utils"
)

const (
	DestinationLocal = "local"
	DestinationGCS   = "gcs"

	ArqueoExportedEvent = "arqueo.report.exported"

	gcsArqueoPrefix = "arqueos/"
	exportLockTTL   = 30 * time.Second
)

var ErrExportInProgress = errors.New("export already in progress")

// swapped in tests
var (
	uploadObject     = utils.UploadBytesToGCS
	publishEvent     = config.PublishEvent
	obtainExportLock = obtainRedisExportLock
)

type ExportResult struct {
	ArqueoId    int    `json:"arqueo_id"`
	Destination string `json:"destino"`
	Location    string `json:"ubicacion"`
}

// ExportArqueoReportTo delivers the report workbook to a local directory or to GCS.
func ExportArqueoReportTo(ctx context.Context, report *ArqueoReport, destination string, dir string) (*ExportResult, error) {
	switch destination {
	case DestinationLocal, "":
		return SaveArqueoReport(report, dir)
	case DestinationGCS:
		return UploadArqueoReport(ctx, report)
	default:
		return nil, utils.ValidationError("invalid destino " + destination)
	}
}

// SaveArqueoReport writes Arqueo_<id>.xlsx into dir (EXPORT_DIR when empty).
func SaveArqueoReport(report *ArqueoReport, dir string) (*ExportResult, error) {
	if report == nil {
		return nil, utils.ExportError("save arqueo report", ErrNoReport)
	}
	if dir == "" {
		dir = config.ExportDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		config.LogError(config.GetLogger(), "reports", "SaveArqueoReport", "create export dir", dir, err)
		return nil, utils.ExportError("create export dir", err)
	}

	f, err := NewArqueoWorkbook(report)
	if err != nil {
		config.LogError(config.GetLogger(), "reports", "SaveArqueoReport", "build workbook", report.ArqueoId, err)
		return nil, utils.ExportError("build arqueo workbook", err)
	}
	defer f.Close()

	target := filepath.Join(dir, ArqueoReportFilename(report.ArqueoId))
	if err := f.SaveAs(target); err != nil {
		config.LogError(config.GetLogger(), "reports", "SaveArqueoReport", "save workbook", target, err)
		return nil, utils.ExportError("save arqueo workbook", err)
	}
	return &ExportResult{ArqueoId: report.ArqueoId, Destination: DestinationLocal, Location: target}, nil
}

// UploadArqueoReport uploads the workbook to GCS_BUCKET under arqueos/.
// A Redis lock, when Redis is connected, keeps two uploads of the same report from racing.
func UploadArqueoReport(ctx context.Context, report *ArqueoReport) (*ExportResult, error) {
	if report == nil {
		return nil, utils.ExportError("upload arqueo report", ErrNoReport)
	}

	release, err := obtainExportLock(ctx, exportLockKey(report.ArqueoId))
	switch {
	case errors.Is(err, redislock.ErrNotObtained):
		return nil, utils.ExportError("upload arqueo report", ErrExportInProgress)
	case err != nil:
		// best effort: upload without the lock
		config.LogError(config.GetLogger(), "reports", "UploadArqueoReport", "obtain lock", report.ArqueoId, err)
	default:
		defer release()
	}

	var buf bytes.Buffer
	if err := ExportArqueoReport(report, &buf); err != nil {
		return nil, err
	}

	objectName := path.Join(gcsArqueoPrefix, ArqueoReportFilename(report.ArqueoId))
	if err := uploadObject(ctx, objectName, buf.Bytes(), XlsxContentType); err != nil {
		config.LogError(config.GetLogger(), "reports", "UploadArqueoReport", "upload", objectName, err)
		return nil, utils.ExportError("upload arqueo report", err)
	}

	result := &ExportResult{
		ArqueoId:    report.ArqueoId,
		Destination: DestinationGCS,
		Location:    "gs://" + utils.GetStorageBucket() + "/" + objectName,
	}
	notifyExported(ctx, result)
	return result, nil
}

func exportLockKey(arqueoId int) string {
	return "lock:arqueo-export:" + ArqueoReportFilename(arqueoId)
}

// obtainRedisExportLock takes the upload lock for key. Without Redis it returns a no-op release.
// The release runs on a fresh context so a cancelled request still frees the lock.
func obtainRedisExportLock(ctx context.Context, key string) (func(), error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}, nil
	}
	lock, err := locker.Obtain(ctx, key, exportLockTTL, nil)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			config.LogError(config.GetLogger(), "reports", "UploadArqueoReport", "release lock", key, err)
		}
	}, nil
}

// notifyExported publishes the export event; failures are only logged.
func notifyExported(ctx context.Context, result *ExportResult) {
	topic := config.ExportEventsTopic()
	if topic == "" {
		return
	}
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	event := config.ExportEvent{
		Type:          ArqueoExportedEvent,
		ArqueoId:      result.ArqueoId,
		Destination:   result.Destination,
		Location:      result.Location,
		ExportedAt:    time.Now(),
		CorrelationId: cid,
	}
	if _, err := publishEvent(ctx, topic, event); err != nil {
		config.LogError(config.GetLogger(), "reports", "notifyExported", "publish", event, err)
	}
}
