package models

import "testing"

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to PurchaseOrderStatus }{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted},
		{PurchaseOrderStatusSubmitted, PurchaseOrderStatusConfirmed},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusInTransit},
		{PurchaseOrderStatusInTransit, PurchaseOrderStatusPartiallyDelivered},
		{PurchaseOrderStatusInTransit, PurchaseOrderStatusDelivered},
		{PurchaseOrderStatusPartiallyDelivered, PurchaseOrderStatusDelivered},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled},
		{PurchaseOrderStatusInTransit, PurchaseOrderStatusCancelled},
		{PurchaseOrderStatusPartiallyDelivered, PurchaseOrderStatusCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to PurchaseOrderStatus }{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed}, // no skipping
		{PurchaseOrderStatusSubmitted, PurchaseOrderStatusDraft}, // no going back
		{PurchaseOrderStatusDelivered, PurchaseOrderStatusCancelled},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusSubmitted},
		{PurchaseOrderStatusDelivered, PurchaseOrderStatusInTransit},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestPurchaseOrderStatusIsTerminal(t *testing.T) {
	for _, s := range []PurchaseOrderStatus{PurchaseOrderStatusDelivered, PurchaseOrderStatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []PurchaseOrderStatus{
		PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted,
		PurchaseOrderStatusConfirmed, PurchaseOrderStatusInTransit,
		PurchaseOrderStatusPartiallyDelivered,
	} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestQuantityUnitParse(t *testing.T) {
	var unit QuantityUnit
	for _, valid := range []string{"gm", "kg", "ml", "L", "pcs"} {
		if err := unit.Parse(valid); err != nil {
			t.Errorf("%q should parse: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "KG", "l", "grams", "oz"} {
		if err := unit.Parse(invalid); err == nil {
			t.Errorf("%q should be rejected", invalid)
		}
	}
}

func TestInventoryItemTypeParse(t *testing.T) {
	var itemType InventoryItemType
	for _, valid := range []string{"SupplierMaterial", "SupplierPackaging", "SupplierLabel"} {
		if err := itemType.Parse(valid); err != nil {
			t.Errorf("%q should parse: %v", valid, err)
		}
	}
	if err := itemType.Parse("Material"); err == nil {
		t.Error("bare Material is not an inventory item type")
	}
}
