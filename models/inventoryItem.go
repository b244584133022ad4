package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// InventoryItem tracks stock for one supplier-sourced item. Status is
// derived from CurrentStock against the thresholds; it is recomputed on
// every stock or threshold change, never edited directly.
type InventoryItem struct {
	ID            int               `gorm:"primary_key" json:"id"`
	ItemType      InventoryItemType `gorm:"size:30;index:idx_inventory_item,unique;not null" json:"item_type"`
	ItemID        int               `gorm:"index:idx_inventory_item,unique;not null" json:"item_id"`
	CurrentStock  decimal.Decimal   `gorm:"type:decimal(20,6);not null;default:0" json:"current_stock"`
	MinStockLevel decimal.Decimal   `gorm:"type:decimal(20,6);not null;default:0" json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal  `gorm:"type:decimal(20,6);default:null" json:"max_stock_level"`
	Status        InventoryStatus   `gorm:"size:20;not null" json:"status"`
	Unit          QuantityUnit      `gorm:"size:10;not null" json:"unit"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// ClassifyInventoryStatus derives the stock status. Comparisons against the
// thresholds are strict: stock equal to the minimum is still in-stock, stock
// equal to the maximum is not yet overstock.
func ClassifyInventoryStatus(current, min decimal.Decimal, max *decimal.Decimal) InventoryStatus {
	if current.LessThanOrEqual(decimal.Zero) {
		return InventoryStatusOutOfStock
	}
	if current.LessThan(min) {
		return InventoryStatusLowStock
	}
	if max != nil && current.GreaterThan(*max) {
		return InventoryStatusOverstock
	}
	return InventoryStatusInStock
}

type NewInventoryItem struct {
	ItemType      string           `json:"item_type" binding:"required"`
	ItemID        int              `json:"item_id" binding:"required"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level"`
	Unit          string           `json:"unit" binding:"required"`
}

func (input NewInventoryItem) validate(ctx context.Context, exceptId int) (InventoryItemType, QuantityUnit, error) {
	var itemType InventoryItemType
	var unit QuantityUnit
	if err := itemType.Parse(input.ItemType); err != nil {
		return itemType, unit, err
	}
	if err := unit.Parse(input.Unit); err != nil {
		return itemType, unit, err
	}
	if input.CurrentStock.LessThan(decimal.Zero) || input.MinStockLevel.LessThan(decimal.Zero) {
		return itemType, unit, errors.New("stock levels cannot be negative")
	}
	if input.MaxStockLevel != nil && input.MaxStockLevel.LessThan(input.MinStockLevel) {
		return itemType, unit, errors.New("max stock level cannot be below min stock level")
	}

	var err error
	switch itemType {
	case ItemTypeSupplierMaterial:
		err = utils.ValidateResourceId[SupplierMaterial](ctx, input.ItemID)
	case ItemTypeSupplierPackaging:
		err = utils.ValidateResourceId[SupplierPackaging](ctx, input.ItemID)
	case ItemTypeSupplierLabel:
		err = utils.ValidateResourceId[SupplierLabel](ctx, input.ItemID)
	}
	if err != nil {
		return itemType, unit, err
	}

	count, err := utils.ResourceCountWhere[InventoryItem](ctx,
		"item_type = ? AND item_id = ? AND id != ?", itemType, input.ItemID, exceptId)
	if err != nil {
		return itemType, unit, err
	}
	if count > 0 {
		return itemType, unit, errors.New("this item is already tracked in inventory")
	}
	return itemType, unit, nil
}

func CreateInventoryItem(ctx context.Context, input *NewInventoryItem) (*InventoryItem, error) {
	db := config.GetDB()

	itemType, unit, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	item := InventoryItem{
		ItemType:      itemType,
		ItemID:        input.ItemID,
		CurrentStock:  input.CurrentStock,
		MinStockLevel: input.MinStockLevel,
		MaxStockLevel: input.MaxStockLevel,
		Unit:          unit,
	}
	item.Status = ClassifyInventoryStatus(item.CurrentStock, item.MinStockLevel, item.MaxStockLevel)

	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := syncAlertsForStatus(tx, &item); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInventoryItem changes the thresholds (not the stock; stock moves
// only through transactions) and recomputes status and alerts.
func UpdateInventoryItem(ctx context.Context, id int, minStockLevel decimal.Decimal, maxStockLevel *decimal.Decimal) (*InventoryItem, error) {
	db := config.GetDB()

	if minStockLevel.LessThan(decimal.Zero) {
		return nil, errors.New("stock levels cannot be negative")
	}
	if maxStockLevel != nil && maxStockLevel.LessThan(minStockLevel) {
		return nil, errors.New("max stock level cannot be below min stock level")
	}

	item, err := utils.FetchModel[InventoryItem](ctx, id)
	if err != nil {
		return nil, err
	}

	item.MinStockLevel = minStockLevel
	item.MaxStockLevel = maxStockLevel
	item.Status = ClassifyInventoryStatus(item.CurrentStock, item.MinStockLevel, item.MaxStockLevel)

	tx := db.WithContext(ctx).Begin()
	if err := tx.Save(item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := syncAlertsForStatus(tx, item); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteInventoryItem(ctx context.Context, id int) (*InventoryItem, error) {
	item, err := utils.FetchModel[InventoryItem](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Where("inventory_item_id = ?", id).Delete(&InventoryAlert{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("inventory_item_id = ?", id).Delete(&InventoryTransaction{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return item, nil
}

func GetInventoryItem(ctx context.Context, id int) (*InventoryItem, error) {
	return utils.FetchModel[InventoryItem](ctx, id)
}

func GetInventoryItems(ctx context.Context, itemType *InventoryItemType) ([]*InventoryItem, error) {
	db := config.GetDB()
	var results []*InventoryItem

	dbCtx := db.WithContext(ctx)
	if itemType != nil {
		dbCtx = dbCtx.Where("item_type = ?", *itemType)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetInventoryOverview lists every supplier item with its inventory row.
// Supplier items nobody has started tracking are synthesized as zero-stock
// placeholders (ID 0) so the full catalog is visible; they are never
// persisted until explicitly added.
func GetInventoryOverview(ctx context.Context) ([]*InventoryItem, error) {
	tracked, err := GetInventoryItems(ctx, nil)
	if err != nil {
		return nil, err
	}
	trackedByKey := make(map[requirementKey]*InventoryItem, len(tracked))
	for _, item := range tracked {
		trackedByKey[requirementKey{itemType: item.ItemType, itemId: item.ItemID}] = item
	}

	results := append([]*InventoryItem{}, tracked...)

	appendPlaceholder := func(itemType InventoryItemType, itemId int, unit QuantityUnit) {
		if _, ok := trackedByKey[requirementKey{itemType: itemType, itemId: itemId}]; ok {
			return
		}
		results = append(results, &InventoryItem{
			ItemType: itemType,
			ItemID:   itemId,
			Status:   InventoryStatusOutOfStock,
			Unit:     unit,
		})
	}

	supplierMaterials, err := GetSupplierMaterials(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range supplierMaterials {
		appendPlaceholder(ItemTypeSupplierMaterial, row.ID, UnitKilogram)
	}
	supplierPackagings, err := GetSupplierPackagings(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range supplierPackagings {
		appendPlaceholder(ItemTypeSupplierPackaging, row.ID, UnitPieces)
	}
	supplierLabels, err := GetSupplierLabels(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range supplierLabels {
		appendPlaceholder(ItemTypeSupplierLabel, row.ID, UnitPieces)
	}
	return results, nil
}

// inventoryStockLookup snapshots tracked stock into a lookup for the
// requirements aggregator.
func inventoryStockLookup(ctx context.Context) (StockLookup, error) {
	items, err := GetInventoryItems(ctx, nil)
	if err != nil {
		return nil, err
	}
	byKey := make(map[requirementKey]decimal.Decimal, len(items))
	for _, item := range items {
		byKey[requirementKey{itemType: item.ItemType, itemId: item.ItemID}] = item.CurrentStock
	}
	return func(itemType InventoryItemType, itemId int) (decimal.Decimal, bool) {
		stock, ok := byKey[requirementKey{itemType: itemType, itemId: itemId}]
		return stock, ok
	}, nil
}

// RebuildInventoryStatuses recomputes every tracked item's status from its
// current stock and regenerates alerts. Used by the ops rebuild tool.
func RebuildInventoryStatuses(ctx context.Context) (int, error) {
	db := config.GetDB()
	items, err := GetInventoryItems(ctx, nil)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, item := range items {
		status := ClassifyInventoryStatus(item.CurrentStock, item.MinStockLevel, item.MaxStockLevel)
		if status == item.Status {
			continue
		}
		item.Status = status

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			return syncAlertsForStatus(tx, item)
		})
		if err != nil {
			return changed, fmt.Errorf("inventory item %d: %w", item.ID, err)
		}
		changed++
	}
	return changed, nil
}
