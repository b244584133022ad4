package models

import "errors"

type UserRole string

const (
	UserRoleAdmin UserRole = "Admin"
	UserRoleStaff UserRole = "Staff"
)

// QuantityUnit is the unit a quantity is expressed in. Mass/volume units
// canonicalize to kilograms; Pcs is a bare unit count and is not convertible.
type QuantityUnit string

const (
	UnitGram       QuantityUnit = "gm"
	UnitKilogram   QuantityUnit = "kg"
	UnitMilliliter QuantityUnit = "ml"
	UnitLiter      QuantityUnit = "L"
	UnitPieces     QuantityUnit = "pcs"
)

func (u *QuantityUnit) Parse(str string) error {
	switch str {
	case "gm":
		*u = UnitGram
	case "kg":
		*u = UnitKilogram
	case "ml":
		*u = UnitMilliliter
	case "L":
		*u = UnitLiter
	case "pcs":
		*u = UnitPieces
	default:
		return errors.New("invalid quantity unit")
	}
	return nil
}

type RecipeStatus string

const (
	RecipeStatusDraft    RecipeStatus = "Draft"
	RecipeStatusActive   RecipeStatus = "Active"
	RecipeStatusArchived RecipeStatus = "Archived"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "Active"
	ProductStatusInactive ProductStatus = "Inactive"
)

// RecipeRefKind discriminates what a product's recipe id points to.
type RecipeRefKind string

const (
	RecipeRefKindRecipe  RecipeRefKind = "Recipe"
	RecipeRefKindVariant RecipeRefKind = "Variant"
)

type RecipeVariantChangeType string

const (
	VariantChangeQuantity RecipeVariantChangeType = "QuantityChange"
	VariantChangeSupplier RecipeVariantChangeType = "SupplierChange"
)

type BatchStatus string

const (
	BatchStatusPlanned    BatchStatus = "Planned"
	BatchStatusInProgress BatchStatus = "InProgress"
	BatchStatusCompleted  BatchStatus = "Completed"
	BatchStatusCancelled  BatchStatus = "Cancelled"
)

// InventoryItemType tags which supplier-item an inventory row tracks.
// Unknown values are rejected at the boundary, never coerced.
type InventoryItemType string

const (
	ItemTypeSupplierMaterial  InventoryItemType = "SupplierMaterial"
	ItemTypeSupplierPackaging InventoryItemType = "SupplierPackaging"
	ItemTypeSupplierLabel     InventoryItemType = "SupplierLabel"
)

func (t *InventoryItemType) Parse(str string) error {
	switch str {
	case "SupplierMaterial":
		*t = ItemTypeSupplierMaterial
	case "SupplierPackaging":
		*t = ItemTypeSupplierPackaging
	case "SupplierLabel":
		*t = ItemTypeSupplierLabel
	default:
		return errors.New("invalid inventory item type")
	}
	return nil
}

type InventoryStatus string

const (
	InventoryStatusInStock    InventoryStatus = "InStock"
	InventoryStatusLowStock   InventoryStatus = "LowStock"
	InventoryStatusOutOfStock InventoryStatus = "OutOfStock"
	InventoryStatusOverstock  InventoryStatus = "Overstock"
)

type InventoryTransactionType string

const (
	TransactionTypeIn         InventoryTransactionType = "In"
	TransactionTypeOut        InventoryTransactionType = "Out"
	TransactionTypeAdjustment InventoryTransactionType = "Adjustment"
)

func (t *InventoryTransactionType) Parse(str string) error {
	switch str {
	case "In":
		*t = TransactionTypeIn
	case "Out":
		*t = TransactionTypeOut
	case "Adjustment":
		*t = TransactionTypeAdjustment
	default:
		return errors.New("invalid inventory transaction type")
	}
	return nil
}

type AlertSeverity string

const (
	AlertSeverityCritical AlertSeverity = "Critical"
	AlertSeverityWarning  AlertSeverity = "Warning"
	AlertSeverityInfo     AlertSeverity = "Info"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft              PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusSubmitted          PurchaseOrderStatus = "Submitted"
	PurchaseOrderStatusConfirmed          PurchaseOrderStatus = "Confirmed"
	PurchaseOrderStatusInTransit          PurchaseOrderStatus = "InTransit"
	PurchaseOrderStatusPartiallyDelivered PurchaseOrderStatus = "PartiallyDelivered"
	PurchaseOrderStatusDelivered          PurchaseOrderStatus = "Delivered"
	PurchaseOrderStatusCancelled          PurchaseOrderStatus = "Cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusDelivered || s == PurchaseOrderStatusCancelled
}

// nextPurchaseOrderStatuses is the forward edge set of the order lifecycle.
// PartiallyDelivered may still advance to Delivered via receiving.
var nextPurchaseOrderStatuses = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderStatusDraft:              {PurchaseOrderStatusSubmitted},
	PurchaseOrderStatusSubmitted:          {PurchaseOrderStatusConfirmed},
	PurchaseOrderStatusConfirmed:          {PurchaseOrderStatusInTransit},
	PurchaseOrderStatusInTransit:          {PurchaseOrderStatusPartiallyDelivered, PurchaseOrderStatusDelivered},
	PurchaseOrderStatusPartiallyDelivered: {PurchaseOrderStatusDelivered},
}

// CanTransitionTo validates a status move. Cancelled is reachable from any
// non-terminal state.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	if next == PurchaseOrderStatusCancelled {
		return !s.IsTerminal()
	}
	for _, allowed := range nextPurchaseOrderStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
