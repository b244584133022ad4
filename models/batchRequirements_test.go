package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func rawMaterialLine(itemId, supplierId int, name string, qtyKg, unitCost string) *RawRequirement {
	quantity := dec(qtyKg)
	price := dec(unitCost)
	return &RawRequirement{
		ItemType:     ItemTypeSupplierMaterial,
		ItemID:       itemId,
		ItemName:     name,
		SupplierID:   supplierId,
		SupplierName: "Supplier",
		Quantity:     quantity,
		Unit:         UnitKilogram,
		UnitCost:     price,
		TotalCost:    price.Mul(quantity),
		ProductID:    1,
	}
}

func TestAggregateRequirements_MergesByItemAndSupplier(t *testing.T) {
	raw := []*RawRequirement{
		rawMaterialLine(5, 2, "Sugar", "50", "10"),
		rawMaterialLine(5, 2, "Sugar", "30", "10"),
	}

	result := AggregateRequirements(1, raw, nil)
	if len(result.Materials) != 1 {
		t.Fatalf("expected one merged line, got %d", len(result.Materials))
	}
	merged := result.Materials[0]
	if !merged.Quantity.Equal(dec("80")) {
		t.Errorf("merged quantity: got %s, want 80", merged.Quantity)
	}
	if !merged.TotalCost.Equal(dec("800")) {
		t.Errorf("merged cost: got %s, want 800", merged.TotalCost)
	}
	if result.Overview.TotalItems != 1 || result.Overview.SupplierCount != 1 {
		t.Errorf("overview: %+v", result.Overview)
	}
}

func TestAggregateRequirements_SameItemDifferentSupplierStaysSeparate(t *testing.T) {
	raw := []*RawRequirement{
		rawMaterialLine(5, 2, "Sugar", "50", "10"),
		rawMaterialLine(9, 3, "Sugar", "30", "12"),
	}

	result := AggregateRequirements(1, raw, nil)
	if len(result.Materials) != 2 {
		t.Fatalf("different suppliers must not merge, got %d lines", len(result.Materials))
	}
	if result.Overview.SupplierCount != 2 || len(result.BySupplier) != 2 {
		t.Errorf("expected two supplier groups, got %d", len(result.BySupplier))
	}
	// Supplier groups are ordered by supplier id.
	if result.BySupplier[0].SupplierID != 2 || result.BySupplier[1].SupplierID != 3 {
		t.Errorf("supplier order: %d, %d", result.BySupplier[0].SupplierID, result.BySupplier[1].SupplierID)
	}
}

func TestAggregateRequirements_ShortageDetection(t *testing.T) {
	raw := []*RawRequirement{
		rawMaterialLine(5, 2, "Sugar", "80", "10"),
		rawMaterialLine(6, 2, "Salt", "10", "5"),
	}
	stock := func(itemType InventoryItemType, itemId int) (decimal.Decimal, bool) {
		switch itemId {
		case 5:
			return dec("30"), true // 50 short
		case 6:
			return dec("100"), true // plenty
		}
		return decimal.Zero, false
	}

	result := AggregateRequirements(1, raw, stock)
	if len(result.CriticalShortages) != 1 {
		t.Fatalf("expected one shortage, got %d", len(result.CriticalShortages))
	}
	shortage := result.CriticalShortages[0]
	if shortage.Requirement.ItemID != 5 || !shortage.Shortage.Equal(dec("50")) {
		t.Errorf("shortage: item %d amount %s", shortage.Requirement.ItemID, shortage.Shortage)
	}
	if !shortage.Available.Equal(dec("30")) {
		t.Errorf("available: got %s", shortage.Available)
	}
	if result.Overview.ShortageCount != 1 {
		t.Errorf("overview shortage count: %d", result.Overview.ShortageCount)
	}
}

func TestAggregateRequirements_UntrackedItemIsNotAShortage(t *testing.T) {
	raw := []*RawRequirement{rawMaterialLine(5, 2, "Sugar", "80", "10")}
	stock := func(itemType InventoryItemType, itemId int) (decimal.Decimal, bool) {
		return decimal.Zero, false
	}

	result := AggregateRequirements(1, raw, stock)
	if len(result.CriticalShortages) != 0 {
		t.Error("untracked items have unknown availability, not a shortage")
	}
	if len(result.ItemsWithoutInventory) != 1 || result.ItemsWithoutInventory[0].ItemID != 5 {
		t.Errorf("items without inventory: %+v", result.ItemsWithoutInventory)
	}
}

func TestAggregateRequirements_StableOrdering(t *testing.T) {
	packaging := &RawRequirement{
		ItemType: ItemTypeSupplierPackaging, ItemID: 1, ItemName: "Jar 500ml",
		SupplierID: 1, Quantity: dec("10"), Unit: UnitPieces,
		UnitCost: dec("2"), TotalCost: dec("20"), ProductID: 1,
	}
	raw := []*RawRequirement{
		packaging,
		rawMaterialLine(9, 1, "Zinc Oxide", "1", "100"),
		rawMaterialLine(5, 1, "Almond Oil", "2", "50"),
	}

	result := AggregateRequirements(1, raw, nil)
	if len(result.Materials) != 2 || len(result.Packaging) != 1 {
		t.Fatalf("split: %d materials, %d packaging", len(result.Materials), len(result.Packaging))
	}
	// Materials sort before packaging, and by name within the type.
	if result.Materials[0].ItemName != "Almond Oil" || result.Materials[1].ItemName != "Zinc Oxide" {
		t.Errorf("material order: %q, %q", result.Materials[0].ItemName, result.Materials[1].ItemName)
	}
	if !result.Overview.TotalCost.Equal(dec("220")) {
		t.Errorf("overview total: got %s", result.Overview.TotalCost)
	}
}

func TestAggregateRequirements_ByProductKeepsRawTraceability(t *testing.T) {
	lineA := rawMaterialLine(5, 2, "Sugar", "50", "10")
	lineB := rawMaterialLine(5, 2, "Sugar", "30", "10")
	lineB.ProductID = 2

	result := AggregateRequirements(1, []*RawRequirement{lineA, lineB}, nil)
	if len(result.ByProduct) != 2 {
		t.Fatalf("expected per-product groups, got %d", len(result.ByProduct))
	}
	if result.ByProduct[0].ProductID != 1 || result.ByProduct[1].ProductID != 2 {
		t.Errorf("product order: %d, %d", result.ByProduct[0].ProductID, result.ByProduct[1].ProductID)
	}
	if !result.ByProduct[1].TotalCost.Equal(dec("300")) {
		t.Errorf("product 2 cost: got %s", result.ByProduct[1].TotalCost)
	}
}

func TestBuildVariantRequirements_ScalesByWeightShare(t *testing.T) {
	// 60/40 recipe, 5 kg batch fill: 3 kg and 2 kg of material, pre-tax cost.
	recipeCost := RecipeCostSummary{
		Lines: []IngredientCostLine{
			{SupplierMaterialID: 1, QuantityKg: dec("0.6"), UnitPrice: dec("10")},
			{SupplierMaterialID: 2, QuantityKg: dec("0.4"), UnitPrice: dec("20")},
		},
		TotalWeightGrams: dec("1000"),
	}
	packagingId := 7
	variant := &ProductVariant{
		ID:                  3,
		Name:                "500gm Jar",
		SupplierPackagingID: &packagingId,
		LabelsPerUnit:       1,
	}
	metrics := BatchVariantMetrics{FillInKg: dec("5"), Units: 10}

	materials := map[int]*SupplierMaterial{
		1: {ID: 1, SupplierID: 2, Material: &Material{Name: "Shea Butter"}},
		2: {ID: 2, SupplierID: 2, Material: &Material{Name: "Coconut Oil"}},
	}
	raw := BuildVariantRequirements(1, variant, metrics, recipeCost,
		func(id int) *SupplierMaterial { return materials[id] },
		func(id int) *SupplierPackaging {
			return &SupplierPackaging{ID: id, SupplierID: 4, CostPerUnit: dec("2"), Packaging: &Packaging{Name: "Jar"}}
		},
		func(id int) *SupplierLabel { return nil },
	)

	if len(raw) != 3 {
		t.Fatalf("expected 2 materials + 1 packaging, got %d lines", len(raw))
	}
	if !raw[0].Quantity.Equal(dec("3")) || !raw[0].TotalCost.Equal(dec("30")) {
		t.Errorf("first material: %s kg, cost %s", raw[0].Quantity, raw[0].TotalCost)
	}
	if !raw[1].Quantity.Equal(dec("2")) || !raw[1].TotalCost.Equal(dec("40")) {
		t.Errorf("second material: %s kg, cost %s", raw[1].Quantity, raw[1].TotalCost)
	}
	if raw[2].ItemType != ItemTypeSupplierPackaging || !raw[2].Quantity.Equal(dec("10")) {
		t.Errorf("packaging line: type %s quantity %s", raw[2].ItemType, raw[2].Quantity)
	}
}

func TestBuildVariantRequirements_LabelsScaleWithLabelsPerUnit(t *testing.T) {
	frontId, backId := 11, 12
	variant := &ProductVariant{
		ID:            3,
		Name:          "250gm Tin",
		FrontLabelID:  &frontId,
		BackLabelID:   &backId,
		LabelsPerUnit: 2,
	}
	metrics := BatchVariantMetrics{FillInKg: dec("1"), Units: 4}

	raw := BuildVariantRequirements(1, variant, metrics, RecipeCostSummary{},
		func(id int) *SupplierMaterial { return nil },
		func(id int) *SupplierPackaging { return nil },
		func(id int) *SupplierLabel {
			return &SupplierLabel{ID: id, SupplierID: 5, CostPerUnit: dec("0.5"), Label: &Label{Name: "Sticker"}}
		},
	)

	if len(raw) != 2 {
		t.Fatalf("expected front and back label lines, got %d", len(raw))
	}
	for _, line := range raw {
		if !line.Quantity.Equal(dec("8")) {
			t.Errorf("label %d quantity: got %s, want 8 (2 per unit, 4 units)", line.ItemID, line.Quantity)
		}
		if !line.TotalCost.Equal(dec("4")) {
			t.Errorf("label %d cost: got %s, want 4", line.ItemID, line.TotalCost)
		}
	}
}

func TestBuildVariantRequirements_DanglingSupplierMaterialSkipped(t *testing.T) {
	recipeCost := RecipeCostSummary{
		Lines:            []IngredientCostLine{{SupplierMaterialID: 99, QuantityKg: dec("1"), UnitPrice: dec("10")}},
		TotalWeightGrams: dec("1000"),
	}
	variant := &ProductVariant{ID: 3, Name: "500gm Jar", LabelsPerUnit: 1}
	metrics := BatchVariantMetrics{FillInKg: dec("5"), Units: 10}

	raw := BuildVariantRequirements(1, variant, metrics, recipeCost,
		func(id int) *SupplierMaterial { return nil },
		func(id int) *SupplierPackaging { return nil },
		func(id int) *SupplierLabel { return nil },
	)
	if len(raw) != 0 {
		t.Errorf("dangling supplier material should produce no requirement, got %d lines", len(raw))
	}
}
