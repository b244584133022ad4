package models

import "testing"

func TestDeriveVariantChanges_QuantityChange(t *testing.T) {
	original := []*RecipeIngredient{
		{SupplierMaterialID: 1, Quantity: dec("500"), Unit: UnitGram},
	}
	snapshot := []*RecipeVariantIngredient{
		{SupplierMaterialID: 1, Quantity: dec("600"), Unit: UnitGram},
	}
	materialOf := map[int]int{1: 10}

	changes := DeriveVariantChanges(original, snapshot, materialOf)
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %d", len(changes))
	}
	change := changes[0]
	if change.ChangeType != VariantChangeQuantity || change.MaterialID != 10 {
		t.Errorf("got %s for material %d", change.ChangeType, change.MaterialID)
	}
	if change.OldValue != "500.00 gm" || change.NewValue != "600.00 gm" {
		t.Errorf("values: %q -> %q", change.OldValue, change.NewValue)
	}
}

func TestDeriveVariantChanges_SupplierChange(t *testing.T) {
	// Same material (10) sourced from supplier material 2 instead of 1.
	original := []*RecipeIngredient{
		{SupplierMaterialID: 1, Quantity: dec("500"), Unit: UnitGram},
	}
	snapshot := []*RecipeVariantIngredient{
		{SupplierMaterialID: 2, Quantity: dec("500"), Unit: UnitGram},
	}
	materialOf := map[int]int{1: 10, 2: 10}

	changes := DeriveVariantChanges(original, snapshot, materialOf)
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %d", len(changes))
	}
	if changes[0].ChangeType != VariantChangeSupplier {
		t.Errorf("got %s", changes[0].ChangeType)
	}
	if changes[0].OldValue != "1" || changes[0].NewValue != "2" {
		t.Errorf("values: %q -> %q", changes[0].OldValue, changes[0].NewValue)
	}
}

func TestDeriveVariantChanges_EquivalentQuantityAcrossUnits(t *testing.T) {
	// 1000 gm and 1 kg are the same amount; no change recorded.
	original := []*RecipeIngredient{
		{SupplierMaterialID: 1, Quantity: dec("1000"), Unit: UnitGram},
	}
	snapshot := []*RecipeVariantIngredient{
		{SupplierMaterialID: 1, Quantity: dec("1"), Unit: UnitKilogram},
	}
	materialOf := map[int]int{1: 10}

	if changes := DeriveVariantChanges(original, snapshot, materialOf); len(changes) != 0 {
		t.Errorf("unit-equivalent quantities should record no change, got %d", len(changes))
	}
}

func TestDeriveVariantChanges_BothSupplierAndQuantity(t *testing.T) {
	original := []*RecipeIngredient{
		{SupplierMaterialID: 1, Quantity: dec("500"), Unit: UnitGram},
	}
	snapshot := []*RecipeVariantIngredient{
		{SupplierMaterialID: 2, Quantity: dec("750"), Unit: UnitGram},
	}
	materialOf := map[int]int{1: 10, 2: 10}

	changes := DeriveVariantChanges(original, snapshot, materialOf)
	if len(changes) != 2 {
		t.Fatalf("expected supplier and quantity changes, got %d", len(changes))
	}
	if changes[0].ChangeType != VariantChangeSupplier || changes[1].ChangeType != VariantChangeQuantity {
		t.Errorf("change types: %s, %s", changes[0].ChangeType, changes[1].ChangeType)
	}
}
