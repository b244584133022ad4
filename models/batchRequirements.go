package models

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// RawRequirement is one batch line's need for one supplier-sourced item,
// before merging. It retains the product/variant that generated it so the
// by-product view can trace every requirement back to its batch line.
type RawRequirement struct {
	ItemType         InventoryItemType `json:"item_type"`
	ItemID           int               `json:"item_id"`
	ItemName         string            `json:"item_name"`
	SupplierID       int               `json:"supplier_id"`
	SupplierName     string            `json:"supplier_name"`
	Quantity         decimal.Decimal   `json:"quantity"`
	Unit             QuantityUnit      `json:"unit"`
	UnitCost         decimal.Decimal   `json:"unit_cost"`
	TotalCost        decimal.Decimal   `json:"total_cost"`
	ProductID        int               `json:"product_id"`
	ProductVariantID int               `json:"product_variant_id"`
	VariantName      string            `json:"variant_name"`
}

// Requirement is a merged need line: raw requirements sharing
// (itemType, itemId, supplierId) collapse into one with summed quantity and
// cost.
type Requirement struct {
	ItemType     InventoryItemType `json:"item_type"`
	ItemID       int               `json:"item_id"`
	ItemName     string            `json:"item_name"`
	SupplierID   int               `json:"supplier_id"`
	SupplierName string            `json:"supplier_name"`
	Quantity     decimal.Decimal   `json:"quantity"`
	Unit         QuantityUnit      `json:"unit"`
	UnitCost     decimal.Decimal   `json:"unit_cost"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
}

// Shortage is a merged requirement whose tracked stock cannot cover it.
type Shortage struct {
	Requirement *Requirement    `json:"requirement"`
	Available   decimal.Decimal `json:"available"`
	Shortage    decimal.Decimal `json:"shortage"`
}

type SupplierRequirementGroup struct {
	SupplierID   int             `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Materials    []*Requirement  `json:"materials"`
	Packaging    []*Requirement  `json:"packaging"`
	Labels       []*Requirement  `json:"labels"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

type ProductRequirementGroup struct {
	ProductID    int               `json:"product_id"`
	Requirements []*RawRequirement `json:"requirements"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
}

type RequirementsOverview struct {
	TotalItems    int             `json:"total_items"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	SupplierCount int             `json:"supplier_count"`
	ShortageCount int             `json:"shortage_count"`
}

type BatchRequirements struct {
	BatchID               int                         `json:"batch_id"`
	Materials             []*Requirement              `json:"materials"`
	Packaging             []*Requirement              `json:"packaging"`
	Labels                []*Requirement              `json:"labels"`
	CriticalShortages     []*Shortage                 `json:"critical_shortages"`
	ItemsWithoutInventory []*Requirement              `json:"items_without_inventory"`
	BySupplier            []*SupplierRequirementGroup `json:"by_supplier"`
	ByProduct             []*ProductRequirementGroup  `json:"by_product"`
	Overview              RequirementsOverview        `json:"overview"`
}

// StockLookup answers how much of a supplier item is on hand. tracked is
// false when the item has no inventory row at all; availability is then
// unknown, which is reported separately from a shortage.
type StockLookup func(itemType InventoryItemType, itemId int) (stock decimal.Decimal, tracked bool)

type requirementKey struct {
	itemType   InventoryItemType
	itemId     int
	supplierId int
}

var itemTypeOrder = map[InventoryItemType]int{
	ItemTypeSupplierMaterial:  0,
	ItemTypeSupplierPackaging: 1,
	ItemTypeSupplierLabel:     2,
}

// AggregateRequirements merges raw per-variant requirements, detects
// shortages against tracked stock, and builds the supplier and product
// groupings plus the overview totals. Merge order cannot affect the sums;
// output ordering is made stable by sorting for reproducible snapshots.
func AggregateRequirements(batchId int, raw []*RawRequirement, stock StockLookup) *BatchRequirements {
	result := &BatchRequirements{
		BatchID:               batchId,
		Materials:             []*Requirement{},
		Packaging:             []*Requirement{},
		Labels:                []*Requirement{},
		CriticalShortages:     []*Shortage{},
		ItemsWithoutInventory: []*Requirement{},
		BySupplier:            []*SupplierRequirementGroup{},
		ByProduct:             []*ProductRequirementGroup{},
	}

	merged := map[requirementKey]*Requirement{}
	var order []requirementKey
	for _, line := range raw {
		key := requirementKey{line.ItemType, line.ItemID, line.SupplierID}
		existing, ok := merged[key]
		if !ok {
			merged[key] = &Requirement{
				ItemType:     line.ItemType,
				ItemID:       line.ItemID,
				ItemName:     line.ItemName,
				SupplierID:   line.SupplierID,
				SupplierName: line.SupplierName,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
				UnitCost:     line.UnitCost,
				TotalCost:    line.TotalCost,
			}
			order = append(order, key)
			continue
		}
		existing.Quantity = existing.Quantity.Add(line.Quantity)
		existing.TotalCost = existing.TotalCost.Add(line.TotalCost)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if itemTypeOrder[a.itemType] != itemTypeOrder[b.itemType] {
			return itemTypeOrder[a.itemType] < itemTypeOrder[b.itemType]
		}
		if merged[a].ItemName != merged[b].ItemName {
			return merged[a].ItemName < merged[b].ItemName
		}
		return a.supplierId < b.supplierId
	})

	suppliers := map[int]*SupplierRequirementGroup{}
	var supplierOrder []int

	for _, key := range order {
		requirement := merged[key]
		switch requirement.ItemType {
		case ItemTypeSupplierMaterial:
			result.Materials = append(result.Materials, requirement)
		case ItemTypeSupplierPackaging:
			result.Packaging = append(result.Packaging, requirement)
		case ItemTypeSupplierLabel:
			result.Labels = append(result.Labels, requirement)
		}

		if stock != nil {
			available, tracked := stock(requirement.ItemType, requirement.ItemID)
			if !tracked {
				result.ItemsWithoutInventory = append(result.ItemsWithoutInventory, requirement)
			} else if shortage := requirement.Quantity.Sub(available); shortage.GreaterThan(decimal.Zero) {
				result.CriticalShortages = append(result.CriticalShortages, &Shortage{
					Requirement: requirement,
					Available:   available,
					Shortage:    shortage,
				})
			}
		}

		group, ok := suppliers[requirement.SupplierID]
		if !ok {
			group = &SupplierRequirementGroup{
				SupplierID:   requirement.SupplierID,
				SupplierName: requirement.SupplierName,
			}
			suppliers[requirement.SupplierID] = group
			supplierOrder = append(supplierOrder, requirement.SupplierID)
		}
		switch requirement.ItemType {
		case ItemTypeSupplierMaterial:
			group.Materials = append(group.Materials, requirement)
		case ItemTypeSupplierPackaging:
			group.Packaging = append(group.Packaging, requirement)
		case ItemTypeSupplierLabel:
			group.Labels = append(group.Labels, requirement)
		}
		group.TotalCost = group.TotalCost.Add(requirement.TotalCost)

		result.Overview.TotalItems++
		result.Overview.TotalCost = result.Overview.TotalCost.Add(requirement.TotalCost)
	}

	sort.Ints(supplierOrder)
	for _, supplierId := range supplierOrder {
		result.BySupplier = append(result.BySupplier, suppliers[supplierId])
	}

	products := map[int]*ProductRequirementGroup{}
	var productOrder []int
	for _, line := range raw {
		group, ok := products[line.ProductID]
		if !ok {
			group = &ProductRequirementGroup{ProductID: line.ProductID}
			products[line.ProductID] = group
			productOrder = append(productOrder, line.ProductID)
		}
		group.Requirements = append(group.Requirements, line)
		group.TotalCost = group.TotalCost.Add(line.TotalCost)
	}
	sort.Ints(productOrder)
	for _, productId := range productOrder {
		result.ByProduct = append(result.ByProduct, products[productId])
	}

	result.Overview.SupplierCount = len(supplierOrder)
	result.Overview.ShortageCount = len(result.CriticalShortages)
	return result
}

// BuildVariantRequirements expands one qualifying batch line into raw
// requirement records: materials scaled by ingredient weight share of the
// batch kilograms, one packaging piece per unit, labelsPerUnit label pieces
// per unit split front/back. Ingredients whose supplier material is gone
// are skipped; there is nothing left to order.
func BuildVariantRequirements(productId int, variant *ProductVariant, metrics BatchVariantMetrics, recipeCost RecipeCostSummary, lookupSupplierMaterial func(id int) *SupplierMaterial, lookupPackaging func(id int) *SupplierPackaging, lookupLabel func(id int) *SupplierLabel) []*RawRequirement {
	var raw []*RawRequirement
	units := decimal.NewFromInt(metrics.Units)
	totalWeightKg := recipeCost.TotalWeightGrams.Div(decimalThousand)

	for _, line := range recipeCost.Lines {
		supplierMaterial := lookupSupplierMaterial(line.SupplierMaterialID)
		if supplierMaterial == nil {
			continue
		}
		quantity := decimal.Zero
		if totalWeightKg.GreaterThan(decimal.Zero) {
			quantity = line.QuantityKg.Div(totalWeightKg).Mul(metrics.FillInKg)
		}
		requirement := &RawRequirement{
			ItemType:         ItemTypeSupplierMaterial,
			ItemID:           supplierMaterial.ID,
			SupplierID:       supplierMaterial.SupplierID,
			Quantity:         quantity,
			Unit:             UnitKilogram,
			UnitCost:         line.UnitPrice,
			TotalCost:        line.UnitPrice.Mul(quantity),
			ProductID:        productId,
			ProductVariantID: variant.ID,
			VariantName:      variant.Name,
		}
		if supplierMaterial.Material != nil {
			requirement.ItemName = supplierMaterial.Material.Name
		}
		if supplierMaterial.Supplier != nil {
			requirement.SupplierName = supplierMaterial.Supplier.Name
		}
		raw = append(raw, requirement)
	}

	if variant.SupplierPackagingID != nil {
		if supplierPackaging := lookupPackaging(*variant.SupplierPackagingID); supplierPackaging != nil {
			requirement := &RawRequirement{
				ItemType:         ItemTypeSupplierPackaging,
				ItemID:           supplierPackaging.ID,
				SupplierID:       supplierPackaging.SupplierID,
				Quantity:         units,
				Unit:             UnitPieces,
				UnitCost:         supplierPackaging.CostPerUnit,
				TotalCost:        supplierPackaging.CostPerUnit.Mul(units),
				ProductID:        productId,
				ProductVariantID: variant.ID,
				VariantName:      variant.Name,
			}
			if supplierPackaging.Packaging != nil {
				requirement.ItemName = supplierPackaging.Packaging.Name
			}
			if supplierPackaging.Supplier != nil {
				requirement.SupplierName = supplierPackaging.Supplier.Name
			}
			raw = append(raw, requirement)
		}
	}

	labelQuantity := decimal.NewFromInt(int64(variant.LabelsPerUnit)).Mul(units)
	for _, labelId := range []*int{variant.FrontLabelID, variant.BackLabelID} {
		if labelId == nil {
			continue
		}
		supplierLabel := lookupLabel(*labelId)
		if supplierLabel == nil {
			continue
		}
		requirement := &RawRequirement{
			ItemType:         ItemTypeSupplierLabel,
			ItemID:           supplierLabel.ID,
			SupplierID:       supplierLabel.SupplierID,
			Quantity:         labelQuantity,
			Unit:             UnitPieces,
			UnitCost:         supplierLabel.CostPerUnit,
			TotalCost:        supplierLabel.CostPerUnit.Mul(labelQuantity),
			ProductID:        productId,
			ProductVariantID: variant.ID,
			VariantName:      variant.Name,
		}
		if supplierLabel.Label != nil {
			requirement.ItemName = supplierLabel.Label.Name
		}
		if supplierLabel.Supplier != nil {
			requirement.SupplierName = supplierLabel.Supplier.Name
		}
		raw = append(raw, requirement)
	}
	return raw
}

// GetProductionBatchRequirements walks every qualifying batch line and
// aggregates what the run needs to buy, checked against tracked inventory.
func GetProductionBatchRequirements(ctx context.Context, batchId int) (*BatchRequirements, error) {
	batch, err := GetProductionBatch(ctx, batchId)
	if err != nil {
		return nil, err
	}

	lookupSupplierMaterial := func(id int) *SupplierMaterial {
		row, err := GetSupplierMaterial(ctx, id)
		if err != nil {
			return nil
		}
		return row
	}
	lookupPackaging := func(id int) *SupplierPackaging {
		row, err := GetSupplierPackaging(ctx, id)
		if err != nil {
			return nil
		}
		return row
	}
	lookupLabel := func(id int) *SupplierLabel {
		row, err := GetSupplierLabel(ctx, id)
		if err != nil {
			return nil
		}
		return row
	}

	var raw []*RawRequirement
	for _, item := range batch.Items {
		product, err := GetProduct(ctx, item.ProductID)
		if err != nil {
			continue
		}
		formulation, err := ResolveFormulation(ctx, product)
		if err != nil {
			continue
		}
		prices, err := PriceLookupForIngredients(ctx, formulation.Ingredients)
		if err != nil {
			return nil, err
		}
		recipeCost := CalculateRecipeTotals(formulation.Ingredients, prices, nil)

		for _, line := range item.Variants {
			variant, err := GetProductVariant(ctx, line.ProductVariantID)
			if err != nil {
				continue
			}
			metrics := CalculateVariantMetrics(variant.FillQuantity, variant.FillUnit, line.TotalFillQuantity, line.FillUnit)
			if metrics.Units == 0 {
				continue
			}
			raw = append(raw, BuildVariantRequirements(item.ProductID, variant, metrics, recipeCost,
				lookupSupplierMaterial, lookupPackaging, lookupLabel)...)
		}
	}

	stock, err := inventoryStockLookup(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateRequirements(batchId, raw, stock), nil
}
