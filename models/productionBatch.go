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

// ProductionBatch is one planned production run: a set of products, each
// with the variants to produce and the aggregate fill quantity per variant.
type ProductionBatch struct {
	ID        int                    `gorm:"primary_key" json:"id"`
	BatchName string                 `gorm:"size:255;not null" json:"batch_name" binding:"required"`
	Status    BatchStatus            `gorm:"size:20;not null;default:'Planned'" json:"status"`
	Notes     string                 `gorm:"type:text;default:null" json:"notes"`
	Items     []*ProductionBatchItem `gorm:"foreignKey:BatchID" json:"items"`
	CreatedAt time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

type ProductionBatchItem struct {
	ID        int                       `gorm:"primary_key" json:"id"`
	BatchID   int                       `gorm:"index;not null" json:"batch_id"`
	ProductID int                       `gorm:"index;not null" json:"product_id"`
	Product   *Product                  `json:"product,omitempty"`
	Variants  []*ProductionBatchVariant `gorm:"foreignKey:BatchItemID" json:"variants"`
}

// ProductionBatchVariant is one batch line: TotalFillQuantity is the
// aggregate amount to produce for that variant in this run, independent of
// the variant's per-unit fill size.
type ProductionBatchVariant struct {
	ID                int             `gorm:"primary_key" json:"id"`
	BatchItemID       int             `gorm:"index;not null" json:"batch_item_id"`
	ProductVariantID  int             `gorm:"index;not null" json:"product_variant_id"`
	ProductVariant    *ProductVariant `json:"product_variant,omitempty"`
	TotalFillQuantity decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"total_fill_quantity"`
	FillUnit          QuantityUnit    `gorm:"size:10;not null" json:"fill_unit"`
}

// BatchVariantMetrics are the per-line production figures everything
// downstream consumes: the batch-total kilograms, the whole-unit count, and
// a display string. Lines with Units == 0 must be filtered out before any
// cost or requirements computation.
type BatchVariantMetrics struct {
	FillInKg        decimal.Decimal `json:"fill_in_kg"`
	Units           int64           `json:"units"`
	DisplayQuantity string          `json:"display_quantity"`
}

// CalculateVariantMetrics derives a batch line's production figures from the
// variant's single-unit fill size and the line's batch-total quantity.
func CalculateVariantMetrics(variantFillQty decimal.Decimal, variantFillUnit QuantityUnit, totalFillQty decimal.Decimal, fillUnit QuantityUnit) BatchVariantMetrics {
	return BatchVariantMetrics{
		FillInKg:        NormalizeToKg(totalFillQty, fillUnit),
		Units:           CalculateUnits(variantFillQty, variantFillUnit, totalFillQty, fillUnit),
		DisplayQuantity: FormatQuantity(totalFillQty, fillUnit),
	}
}

type NewBatchVariant struct {
	ProductVariantID  int             `json:"product_variant_id" binding:"required"`
	TotalFillQuantity decimal.Decimal `json:"total_fill_quantity" binding:"required"`
	FillUnit          string          `json:"fill_unit" binding:"required"`
}

type NewBatchItem struct {
	ProductID int               `json:"product_id" binding:"required"`
	Variants  []NewBatchVariant `json:"variants" binding:"required"`
}

type NewProductionBatch struct {
	BatchName string         `json:"batch_name" binding:"required"`
	Notes     string         `json:"notes"`
	Items     []NewBatchItem `json:"items"`
}

func (input NewProductionBatch) validate(ctx context.Context, exceptId int) ([]*ProductionBatchItem, error) {
	if err := utils.ValidateUnique[ProductionBatch](ctx, "batch_name", input.BatchName, exceptId); err != nil {
		return nil, errors.New("production batch with this name already exists")
	}

	items := make([]*ProductionBatchItem, 0, len(input.Items))
	for i, item := range input.Items {
		if err := utils.ValidateResourceId[Product](ctx, item.ProductID); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		batchItem := ProductionBatchItem{ProductID: item.ProductID}
		for j, line := range item.Variants {
			var unit QuantityUnit
			if err := unit.Parse(line.FillUnit); err != nil {
				return nil, fmt.Errorf("item %d variant %d: %w", i+1, j+1, err)
			}
			if unit != UnitKilogram && unit != UnitLiter {
				return nil, fmt.Errorf("item %d variant %d: batch quantities are expressed in kg or L", i+1, j+1)
			}
			if line.TotalFillQuantity.LessThanOrEqual(decimal.Zero) {
				return nil, fmt.Errorf("item %d variant %d: total fill quantity must be positive", i+1, j+1)
			}
			if err := utils.ValidateResourceId[ProductVariant](ctx, line.ProductVariantID); err != nil {
				return nil, fmt.Errorf("item %d variant %d: %w", i+1, j+1, err)
			}
			batchItem.Variants = append(batchItem.Variants, &ProductionBatchVariant{
				ProductVariantID:  line.ProductVariantID,
				TotalFillQuantity: line.TotalFillQuantity,
				FillUnit:          unit,
			})
		}
		items = append(items, &batchItem)
	}
	return items, nil
}

func CreateProductionBatch(ctx context.Context, input *NewProductionBatch) (*ProductionBatch, error) {
	db := config.GetDB()

	items, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	batch := ProductionBatch{
		BatchName: input.BatchName,
		Status:    BatchStatusPlanned,
		Notes:     input.Notes,
	}

	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&batch).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, item := range items {
		item.BatchID = batch.ID
		if err := tx.Omit("Variants").Create(item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		for _, line := range item.Variants {
			line.BatchItemID = item.ID
			if err := tx.Create(line).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	batch.Items = items
	return &batch, nil
}

// UpdateProductionBatch rewrites the batch header and lines. Completed and
// cancelled batches are immutable; in-progress batches additionally reject
// line edits when strict immutability is on.
func UpdateProductionBatch(ctx context.Context, id int, input *NewProductionBatch) (*ProductionBatch, error) {
	db := config.GetDB()

	batch, err := utils.FetchModel[ProductionBatch](ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.Status == BatchStatusCompleted || batch.Status == BatchStatusCancelled {
		return nil, fmt.Errorf("cannot edit a %s batch", batch.Status)
	}
	if batch.Status == BatchStatusInProgress && config.StrictBatchImmutability() {
		return nil, errors.New("cannot edit an in-progress batch")
	}

	items, err := input.validate(ctx, id)
	if err != nil {
		return nil, err
	}

	batch.BatchName = input.BatchName
	batch.Notes = input.Notes

	tx := db.WithContext(ctx).Begin()
	if err := tx.Save(batch).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := deleteBatchLines(tx, id); err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, item := range items {
		item.BatchID = id
		if err := tx.Omit("Variants").Create(item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		for _, line := range item.Variants {
			line.BatchItemID = item.ID
			if err := tx.Create(line).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	batch.Items = items
	return batch, nil
}

func deleteBatchLines(tx *gorm.DB, batchId int) error {
	var itemIds []int
	if err := tx.Model(&ProductionBatchItem{}).Where("batch_id = ?", batchId).
		Pluck("id", &itemIds).Error; err != nil {
		return err
	}
	if len(itemIds) > 0 {
		if err := tx.Where("batch_item_id IN ?", itemIds).
			Delete(&ProductionBatchVariant{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("batch_id = ?", batchId).Delete(&ProductionBatchItem{}).Error
}

var batchStatusTransitions = map[BatchStatus][]BatchStatus{
	BatchStatusPlanned:    {BatchStatusInProgress, BatchStatusCancelled},
	BatchStatusInProgress: {BatchStatusCompleted, BatchStatusCancelled},
}

func UpdateProductionBatchStatus(ctx context.Context, id int, next BatchStatus) (*ProductionBatch, error) {
	db := config.GetDB()

	batch, err := utils.FetchModel[ProductionBatch](ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range batchStatusTransitions[batch.Status] {
		if status == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot move batch from %s to %s", batch.Status, next)
	}

	batch.Status = next
	if err := db.WithContext(ctx).Save(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func DeleteProductionBatch(ctx context.Context, id int) (*ProductionBatch, error) {
	batch, err := utils.FetchModel[ProductionBatch](ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.Status == BatchStatusInProgress || batch.Status == BatchStatusCompleted {
		return nil, fmt.Errorf("cannot delete a %s batch", batch.Status)
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := deleteBatchLines(tx, id); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(batch).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func GetProductionBatch(ctx context.Context, id int) (*ProductionBatch, error) {
	return utils.FetchModel[ProductionBatch](ctx, id,
		"Items", "Items.Product", "Items.Variants", "Items.Variants.ProductVariant")
}

func GetProductionBatches(ctx context.Context, status *BatchStatus) ([]*ProductionBatch, error) {
	db := config.GetDB()
	var results []*ProductionBatch

	dbCtx := db.WithContext(ctx).Preload("Items").Preload("Items.Variants")
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
