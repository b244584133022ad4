package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the numeric
// semantics of the unit conversion layer everything downstream relies on.

func TestNormalizeToKg_RoundTrip(t *testing.T) {
	for _, unit := range []QuantityUnit{UnitGram, UnitMilliliter} {
		for _, q := range []string{"1", "250", "999", "1000", "2500.5"} {
			quantity := decimal.RequireFromString(q)
			back := NormalizeToKg(quantity, unit).Mul(decimal.NewFromInt(1000))
			if !back.Equal(quantity) {
				t.Errorf("round trip %s %s: got %s", q, unit, back)
			}
		}
	}
}

func TestNormalizeToKg_PassThroughAndGuards(t *testing.T) {
	if got := NormalizeToKg(decimal.NewFromInt(3), UnitKilogram); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("kg should pass through, got %s", got)
	}
	if got := NormalizeToKg(decimal.NewFromInt(2), UnitLiter); !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("L should pass through, got %s", got)
	}
	if got := NormalizeToKg(decimal.NewFromInt(10), UnitPieces); !got.IsZero() {
		t.Errorf("pcs is not mass-convertible, got %s", got)
	}
	if got := NormalizeToKg(decimal.NewFromInt(-5), UnitKilogram); !got.IsZero() {
		t.Errorf("negative quantity should collapse to zero, got %s", got)
	}
	// Unknown unit passes through as already-kilograms.
	if got := NormalizeToKg(decimal.NewFromInt(7), QuantityUnit("bag")); !got.Equal(decimal.NewFromInt(7)) {
		t.Errorf("unknown unit should be treated as kg, got %s", got)
	}
}

func TestCalculateUnits_Floor(t *testing.T) {
	if got := CalculateUnits(decimal.NewFromInt(1000), UnitGram, decimal.NewFromInt(2500), UnitGram); got != 2 {
		t.Errorf("2500/1000 should floor to 2 units, got %d", got)
	}
	if got := CalculateUnits(decimal.NewFromInt(1000), UnitGram, decimal.NewFromInt(999), UnitGram); got != 0 {
		t.Errorf("999/1000 should floor to 0 units, got %d", got)
	}
	if got := CalculateUnits(decimal.Zero, UnitGram, decimal.NewFromInt(1000), UnitGram); got != 0 {
		t.Errorf("zero variant size should yield 0 units, got %d", got)
	}
	if got := CalculateUnits(decimal.NewFromInt(500), UnitGram, decimal.NewFromInt(5), UnitKilogram); got != 10 {
		t.Errorf("mixed units: 5kg / 500gm should be 10, got %d", got)
	}
}

func TestToDisplayUnit_Promotion(t *testing.T) {
	qty, unit := ToDisplayUnit(decimal.NewFromInt(1500), UnitGram)
	if unit != UnitKilogram || !qty.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("1500 gm should display as 1.5 kg, got %s %s", qty, unit)
	}
	qty, unit = ToDisplayUnit(decimal.NewFromInt(999), UnitGram)
	if unit != UnitGram || !qty.Equal(decimal.NewFromInt(999)) {
		t.Errorf("999 gm should stay in gm, got %s %s", qty, unit)
	}
	qty, unit = ToDisplayUnit(decimal.NewFromInt(2000), UnitMilliliter)
	if unit != UnitLiter || !qty.Equal(decimal.NewFromInt(2)) {
		t.Errorf("2000 ml should display as 2 L, got %s %s", qty, unit)
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(decimal.NewFromInt(2500), UnitGram); got != "2.50 kg" {
		t.Errorf("got %q", got)
	}
	if got := FormatQuantity(decimal.NewFromInt(500), UnitGram); got != "500.00 gm" {
		t.Errorf("got %q", got)
	}
}
