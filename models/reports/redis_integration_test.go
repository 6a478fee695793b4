package reports

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/models"
	"github.com/mmdatafocus/pos_backend/utils"
)

func TestReportCacheAndExportLockAgainstRedis(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("ENABLE_REPORT_CACHE", "true")
	t.Setenv("EXPORT_EVENTS_TOPIC", "")
	config.ConnectRedisWithRetry()
	t.Cleanup(func() {
		if rdb := config.GetRedisDB(); rdb != nil {
			_ = rdb.Close()
		}
		config.SetRedisClient(nil)
	})
	rdb := config.GetRedisDB()

	// report cache
	src := &fakeSales{sales: []*models.Sale{
		{ID: 11, SaleDate: time.Date(2024, 3, 15, 15, 30, 0, 0, time.UTC), PaymentMethod: models.PaymentMethodCash, Total: dec("500")},
	}}
	open := sampleArqueo()
	open.Status = models.ArqueoStatusOpen
	if _, err := GetArqueoReport(ctx, src, open, time.UTC); err != nil {
		t.Fatalf("GetArqueoReport (open): %v", err)
	}
	if n, _ := rdb.Exists(ctx, arqueoReportKey(7)).Result(); n != 0 {
		t.Fatalf("open arqueo report must not be cached")
	}

	if _, err := GetArqueoReport(ctx, src, sampleArqueo(), time.UTC); err != nil {
		t.Fatalf("GetArqueoReport (miss): %v", err)
	}
	if n, _ := rdb.Exists(ctx, arqueoReportKey(7)).Result(); n != 1 {
		t.Fatalf("expected the closed arqueo report in redis")
	}
	cached, err := GetArqueoReport(ctx, src, sampleArqueo(), time.UTC)
	if err != nil {
		t.Fatalf("GetArqueoReport (hit): %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected the hit to skip the sales fetch, calls=%d", src.calls)
	}
	if !cached.TotalSales.Equal(dec("500")) || !cached.Difference.Equal(dec("-1.50")) || cached.Status != models.ArqueoStatusClosed {
		t.Fatalf("unexpected cached report %+v", cached)
	}

	if err := InvalidateArqueoReport(7); err != nil {
		t.Fatalf("InvalidateArqueoReport: %v", err)
	}
	if n, _ := rdb.Exists(ctx, arqueoReportKey(7)).Result(); n != 0 {
		t.Fatalf("expected the cache entry removed")
	}

	// export lock
	uploads := 0
	uploadObject = func(ctx context.Context, objectName string, data []byte, contentType string) error {
		uploads++
		return nil
	}
	t.Cleanup(func() { uploadObject = utils.UploadBytesToGCS })

	held, err := config.GetRedisLock().Obtain(ctx, exportLockKey(7), time.Minute, nil)
	if err != nil {
		t.Fatalf("obtain lock: %v", err)
	}
	_, err = UploadArqueoReport(ctx, buildSampleReport(t))
	if !errors.Is(err, ErrExportInProgress) {
		t.Fatalf("expected export in progress while the lock is held, got %v", err)
	}
	if err := held.Release(ctx); err != nil {
		t.Fatalf("release lock: %v", err)
	}

	if _, err := UploadArqueoReport(ctx, buildSampleReport(t)); err != nil {
		t.Fatalf("UploadArqueoReport after release: %v", err)
	}
	if uploads != 1 {
		t.Fatalf("expected one upload, got %d", uploads)
	}
	again, err := config.GetRedisLock().Obtain(ctx, exportLockKey(7), time.Minute, nil)
	if err != nil {
		t.Fatalf("expected the upload to release its lock: %v", err)
	}
	_ = again.Release(ctx)
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pos-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
