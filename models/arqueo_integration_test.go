package models_test

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
	"github.com/shopspring/decimal"
)

func TestArqueoProviderAgainstMySQL(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "pos_test")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	db := config.GetDB()
	if db == nil {
		t.Fatalf("db is nil after ConnectDatabaseWithRetry")
	}

	day := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	older := &models.Arqueo{OpenedAt: day.AddDate(0, 0, -10), Status: models.ArqueoStatusClosed}
	target := &models.Arqueo{
		CashierId:    7,
		OpenedAt:     day,
		SystemTotal:  decimal.RequireFromString("500.00"),
		CountedTotal: decimal.RequireFromString("498.50"),
		Difference:   decimal.RequireFromString("-1.50"),
		Status:       models.ArqueoStatusClosed,
		Transfers: []*models.ArqueoTransfer{
			{CustomerName: "Ana", Amount: decimal.NewFromInt(100), PaymentMethod: "Yape"},
			{CustomerName: "Luis", Amount: decimal.NewFromInt(50), PaymentMethod: "Plin"},
		},
	}
	for _, a := range []*models.Arqueo{older, target} {
		if err := db.WithContext(ctx).Create(a).Error; err != nil {
			t.Fatalf("create arqueo: %v", err)
		}
	}

	from := utils.StartOfDay(day, time.UTC)
	to := utils.EndOfDay(day, time.UTC)
	list, err := models.ListArqueos(ctx, &from, &to)
	if err != nil {
		t.Fatalf("ListArqueos: %v", err)
	}
	if len(list) != 1 || list[0].ID != target.ID {
		t.Fatalf("expected only arqueo %d in range, got %+v", target.ID, list)
	}
	if got := list[0].TransferTotal(); !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected transfer total 150, got %s", got)
	}

	all, err := models.ListArqueos(ctx, nil, nil)
	if err != nil {
		t.Fatalf("ListArqueos unbounded: %v", err)
	}
	if len(all) != 2 || all[0].ID < all[1].ID {
		t.Fatalf("expected 2 arqueos newest first, got %+v", all)
	}

	if _, err := models.DeleteArqueo(ctx, target.ID); err != nil {
		t.Fatalf("DeleteArqueo: %v", err)
	}
	if _, err := models.DeleteArqueo(ctx, target.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found on second delete, got %v", err)
	}
	var transfers int64
	db.WithContext(ctx).Model(&models.ArqueoTransfer{}).Where("arqueo_id = ?", target.ID).Count(&transfers)
	if transfers != 0 {
		t.Fatalf("expected transfers removed with arqueo, found %d", transfers)
	}

	sale := &models.Sale{
		SaleDate:      day,
		CashierId:     7,
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.SaleStatusConfirmed,
		Total:         decimal.NewFromInt(20),
		Details: []*models.SaleDetail{
			{Description: "Pan", Qty: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(20)},
		},
	}
	pending := &models.Sale{
		SaleDate:      day,
		CashierId:     8,
		PaymentMethod: models.PaymentMethodCard,
		Status:        models.SaleStatusPending,
		Total:         decimal.NewFromInt(5),
	}
	for _, s := range []*models.Sale{sale, pending} {
		if err := db.WithContext(ctx).Create(s).Error; err != nil {
			t.Fatalf("create sale: %v", err)
		}
	}

	cashier := 7
	sales, err := models.ListSales(ctx, models.SaleStatusConfirmed, &from, &to, &cashier)
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if len(sales) != 1 || sales[0].ID != sale.ID {
		t.Fatalf("expected confirmed sale %d only, got %+v", sale.ID, sales)
	}

	detail, err := models.GetSaleDetail(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSaleDetail: %v", err)
	}
	if len(detail.Details) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(detail.Details))
	}

	if _, err := models.DeleteSale(ctx, pending.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if _, err := models.GetSaleDetail(ctx, pending.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected deleted sale to be gone, got %v", err)
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pos-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=pos_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
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
