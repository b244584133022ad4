package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateVariantMetrics(t *testing.T) {
	metrics := CalculateVariantMetrics(dec("1000"), UnitGram, dec("5000"), UnitGram)
	if !metrics.FillInKg.Equal(dec("5")) {
		t.Errorf("fill in kg: got %s", metrics.FillInKg)
	}
	if metrics.Units != 5 {
		t.Errorf("units: got %d", metrics.Units)
	}
	if metrics.DisplayQuantity != "5.00 kg" {
		t.Errorf("display quantity: got %q", metrics.DisplayQuantity)
	}
}

func TestCalculateVariantCost_EndToEndBatchScenario(t *testing.T) {
	// 1000gm variant, 5000gm batch line: 5 kg, 5 units. Recipe at 25/kg with
	// no tax, packaging at 2/unit, no labels.
	metrics := CalculateVariantMetrics(dec("1000"), UnitGram, dec("5000"), UnitGram)

	cost := CalculateVariantCost(VariantCostInput{
		CostPerKg:           dec("25"),
		TaxPerKg:            decimal.Zero,
		FillInKg:            metrics.FillInKg,
		Units:               metrics.Units,
		Packaging:           &ItemPricing{UnitPrice: dec("2")},
		LabelsPerUnit:       1,
		SellingPricePerUnit: dec("40"),
	})

	if !cost.MaterialsCost.Equal(dec("125")) {
		t.Errorf("materials cost: got %s, want 125", cost.MaterialsCost)
	}
	if !cost.PackagingCost.Equal(dec("10")) {
		t.Errorf("packaging cost: got %s, want 10", cost.PackagingCost)
	}
	if !cost.LabelsCost.IsZero() {
		t.Errorf("labels cost: got %s, want 0", cost.LabelsCost)
	}
	if !cost.TotalCost.Equal(dec("135")) {
		t.Errorf("total cost: got %s", cost.TotalCost)
	}
	if !cost.TotalRevenue.Equal(dec("200")) {
		t.Errorf("revenue: got %s", cost.TotalRevenue)
	}
	if !cost.Profit.Equal(dec("65")) {
		t.Errorf("profit: got %s", cost.Profit)
	}
	if !cost.CostPerUnit.Equal(dec("27")) {
		t.Errorf("cost per unit: got %s", cost.CostPerUnit)
	}
}

func TestCalculateVariantCost_PackagingTaxAndLabels(t *testing.T) {
	cost := CalculateVariantCost(VariantCostInput{
		CostPerKg:           dec("10"),
		TaxPerKg:            dec("1"),
		FillInKg:            dec("2"),
		Units:               4,
		Packaging:           &ItemPricing{UnitPrice: dec("2"), Tax: dec("10")},
		FrontLabel:          &ItemPricing{UnitPrice: dec("0.5")},
		BackLabel:           &ItemPricing{UnitPrice: dec("0.25")},
		LabelsPerUnit:       2,
		SellingPricePerUnit: dec("20"),
	})

	if !cost.MaterialsCost.Equal(dec("22")) {
		t.Errorf("materials cost: got %s, want 22", cost.MaterialsCost)
	}
	// 2 * 1.10 = 2.2 per unit, times 4 units.
	if !cost.PackagingCost.Equal(dec("8.8")) {
		t.Errorf("packaging cost: got %s, want 8.8", cost.PackagingCost)
	}
	// (0.5 + 0.25) * 2 labels per unit * 4 units.
	if !cost.LabelsCost.Equal(dec("6")) {
		t.Errorf("labels cost: got %s, want 6", cost.LabelsCost)
	}
}

func TestCalculateVariantCost_MissingPackagingAndZeroRevenueGuard(t *testing.T) {
	cost := CalculateVariantCost(VariantCostInput{
		CostPerKg: dec("25"),
		FillInKg:  dec("5"),
		Units:     5,
	})
	if !cost.PackagingCost.IsZero() || !cost.LabelsCost.IsZero() {
		t.Error("missing packaging/labels must contribute zero cost")
	}
	if !cost.Margin.IsZero() {
		t.Errorf("margin must be guarded to zero when revenue is zero, got %s", cost.Margin)
	}
}
