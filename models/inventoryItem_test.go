package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassifyInventoryStatus_Boundaries(t *testing.T) {
	min := dec("10")
	max := dec("100")

	cases := []struct {
		name    string
		current string
		max     *decimal.Decimal
		want    InventoryStatus
	}{
		{"zero stock", "0", &max, InventoryStatusOutOfStock},
		{"negative stock", "-5", &max, InventoryStatusOutOfStock},
		{"below minimum", "9.99", &max, InventoryStatusLowStock},
		{"exactly at minimum", "10", &max, InventoryStatusInStock},
		{"between thresholds", "50", &max, InventoryStatusInStock},
		{"exactly at maximum", "100", &max, InventoryStatusInStock},
		{"above maximum", "100.01", &max, InventoryStatusOverstock},
		{"no maximum set", "1000000", nil, InventoryStatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyInventoryStatus(dec(tc.current), min, tc.max)
			if got != tc.want {
				t.Errorf("stock %s: got %s, want %s", tc.current, got, tc.want)
			}
		})
	}
}

func TestAlertSeverityForStatus(t *testing.T) {
	if alertSeverityForStatus[InventoryStatusOutOfStock] != AlertSeverityCritical {
		t.Error("out of stock should be critical")
	}
	if alertSeverityForStatus[InventoryStatusLowStock] != AlertSeverityWarning {
		t.Error("low stock should be a warning")
	}
	if alertSeverityForStatus[InventoryStatusOverstock] != AlertSeverityInfo {
		t.Error("overstock should be informational")
	}
	// InStock resolves existing alerts but never raises one.
	if _, ok := alertSeverityForStatus[InventoryStatusInStock]; ok {
		t.Error("in stock must not map to an alert severity")
	}
}
