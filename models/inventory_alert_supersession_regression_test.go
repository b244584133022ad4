package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func TestInventoryTransactions_SupersedeAlertsAndKeepLedgerConsistent(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "mfgops_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := models.MigrateTable(); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Aroma Traders"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	material, err := models.CreateMaterial(ctx, &models.NewMaterial{Name: "Shea Butter"})
	if err != nil {
		t.Fatalf("CreateMaterial: %v", err)
	}
	offering, err := models.CreateSupplierMaterial(ctx, &models.NewSupplierMaterial{
		SupplierID:   supplier.ID,
		MaterialID:   material.ID,
		BulkQuantity: decimal.NewFromInt(25),
		BulkUnit:     "kg",
		BulkPrice:    decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateSupplierMaterial: %v", err)
	}

	item, err := models.CreateInventoryItem(ctx, &models.NewInventoryItem{
		ItemType:      "SupplierMaterial",
		ItemID:        offering.ID,
		CurrentStock:  decimal.NewFromInt(50),
		MinStockLevel: decimal.NewFromInt(10),
		Unit:          "kg",
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}
	if item.Status != models.InventoryStatusInStock {
		t.Fatalf("expected InStock after creation; got %s", item.Status)
	}
	if n := unresolvedAlertCount(t, item.ID); n != 0 {
		t.Fatalf("expected no alerts for a healthy item; got %d", n)
	}

	// 50 - 45 = 5, below the minimum: one warning alert appears.
	entry, err := models.ApplyInventoryTransaction(ctx, item.ID, &models.NewInventoryTransaction{
		Type:     "Out",
		Quantity: decimal.NewFromInt(45),
		Reason:   "production draw",
	})
	if err != nil {
		t.Fatalf("ApplyInventoryTransaction(out 45): %v", err)
	}
	if !entry.StockBefore.Equal(decimal.NewFromInt(50)) || !entry.StockAfter.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected ledger 50 -> 5; got %s -> %s", entry.StockBefore, entry.StockAfter)
	}
	alert := singleUnresolvedAlert(t, item.ID)
	if alert.AlertType != models.InventoryStatusLowStock || alert.Severity != models.AlertSeverityWarning {
		t.Fatalf("expected LowStock/Warning alert; got %s/%s", alert.AlertType, alert.Severity)
	}

	// Draining to zero supersedes the warning: the old alert is resolved and
	// exactly one critical alert remains unresolved.
	if _, err := models.ApplyInventoryTransaction(ctx, item.ID, &models.NewInventoryTransaction{
		Type:     "Out",
		Quantity: decimal.NewFromInt(5),
		Reason:   "production draw",
	}); err != nil {
		t.Fatalf("ApplyInventoryTransaction(out 5): %v", err)
	}
	alert = singleUnresolvedAlert(t, item.ID)
	if alert.AlertType != models.InventoryStatusOutOfStock || alert.Severity != models.AlertSeverityCritical {
		t.Fatalf("expected OutOfStock/Critical alert; got %s/%s", alert.AlertType, alert.Severity)
	}
	if n := totalAlertCount(t, item.ID); n != 2 {
		t.Fatalf("expected 2 alerts in history; got %d", n)
	}

	// Taking out more than is on hand is rejected and must not touch the ledger.
	if _, err := models.ApplyInventoryTransaction(ctx, item.ID, &models.NewInventoryTransaction{
		Type:     "Out",
		Quantity: decimal.NewFromInt(1),
	}); err == nil {
		t.Fatalf("expected insufficient stock error")
	}

	// Back above the minimum: in-stock only resolves, it never alerts.
	if _, err := models.ApplyInventoryTransaction(ctx, item.ID, &models.NewInventoryTransaction{
		Type:     "In",
		Quantity: decimal.NewFromInt(40),
		Reason:   "restock",
	}); err != nil {
		t.Fatalf("ApplyInventoryTransaction(in 40): %v", err)
	}
	if n := unresolvedAlertCount(t, item.ID); n != 0 {
		t.Fatalf("expected all alerts resolved after restock; got %d unresolved", n)
	}
	if n := totalAlertCount(t, item.ID); n != 2 {
		t.Fatalf("expected restock to create no alert; history has %d", n)
	}

	// Ledger: one entry per accepted mutation, newest first, each entry's
	// StockBefore matching its predecessor's StockAfter, and the newest
	// StockAfter matching the item's current stock.
	entries, err := models.GetInventoryTransactions(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetInventoryTransactions: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 ledger entries; got %d", len(entries))
	}
	fresh, err := models.GetInventoryItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetInventoryItem: %v", err)
	}
	if !fresh.CurrentStock.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected current stock 40; got %s", fresh.CurrentStock)
	}
	if !entries[0].StockAfter.Equal(fresh.CurrentStock) {
		t.Fatalf("latest StockAfter %s disagrees with current stock %s", entries[0].StockAfter, fresh.CurrentStock)
	}
	for i := 0; i < len(entries)-1; i++ {
		if !entries[i].StockBefore.Equal(entries[i+1].StockAfter) {
			t.Fatalf("broken ledger chain at entry %d: StockBefore %s, previous StockAfter %s",
				i, entries[i].StockBefore, entries[i+1].StockAfter)
		}
	}
}

func unresolvedAlertCount(t *testing.T, itemId int) int {
	t.Helper()
	db := config.GetDB()
	var count int64
	if err := db.Model(&models.InventoryAlert{}).
		Where("inventory_item_id = ? AND is_resolved = ?", itemId, false).
		Count(&count).Error; err != nil {
		t.Fatalf("count unresolved alerts: %v", err)
	}
	return int(count)
}

func totalAlertCount(t *testing.T, itemId int) int {
	t.Helper()
	db := config.GetDB()
	var count int64
	if err := db.Model(&models.InventoryAlert{}).
		Where("inventory_item_id = ?", itemId).
		Count(&count).Error; err != nil {
		t.Fatalf("count alerts: %v", err)
	}
	return int(count)
}

func singleUnresolvedAlert(t *testing.T, itemId int) *models.InventoryAlert {
	t.Helper()
	db := config.GetDB()
	var alerts []*models.InventoryAlert
	if err := db.Where("inventory_item_id = ? AND is_resolved = ?", itemId, false).
		Find(&alerts).Error; err != nil {
		t.Fatalf("fetch unresolved alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one unresolved alert; got %d", len(alerts))
	}
	return alerts[0]
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("mfgops-test-redis-%d", time.Now().UnixNano())
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

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("mfgops-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=mfgops_test",
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
