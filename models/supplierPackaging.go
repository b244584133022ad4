package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// SupplierPackaging is a supplier's offering of a packaging item, priced per
// piece. CostPerUnit is derived from the bulk pack figures.
type SupplierPackaging struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SupplierID   int             `gorm:"index;not null" json:"supplier_id" binding:"required"`
	Supplier     *Supplier       `json:"supplier,omitempty"`
	PackagingID  int             `gorm:"index;not null" json:"packaging_id" binding:"required"`
	Packaging    *Packaging      `json:"packaging,omitempty"`
	BulkQuantity int             `gorm:"not null" json:"bulk_quantity"`
	BulkPrice    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"bulk_price"`
	CostPerUnit  decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"cost_per_unit"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplierPackaging struct {
	SupplierID   int             `json:"supplier_id" binding:"required"`
	PackagingID  int             `json:"packaging_id" binding:"required"`
	BulkQuantity int             `json:"bulk_quantity" binding:"required"`
	BulkPrice    decimal.Decimal `json:"bulk_price" binding:"required"`
}

func (input NewSupplierPackaging) validate(ctx context.Context, exceptId int) error {
	if input.BulkQuantity <= 0 {
		return errors.New("bulk quantity must be positive")
	}
	if input.BulkPrice.LessThan(decimal.Zero) {
		return errors.New("price cannot be negative")
	}
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierID); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Packaging](ctx, input.PackagingID); err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[SupplierPackaging](ctx,
		"supplier_id = ? AND packaging_id = ? AND id != ?",
		input.SupplierID, input.PackagingID, exceptId)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("this supplier already carries this packaging")
	}
	return nil
}

func perUnitCost(bulkPrice decimal.Decimal, bulkQuantity int) decimal.Decimal {
	if bulkQuantity <= 0 {
		return decimal.Zero
	}
	return bulkPrice.Div(decimal.NewFromInt(int64(bulkQuantity)))
}

func CreateSupplierPackaging(ctx context.Context, input *NewSupplierPackaging) (*SupplierPackaging, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	supplierPackaging := SupplierPackaging{
		SupplierID:   input.SupplierID,
		PackagingID:  input.PackagingID,
		BulkQuantity: input.BulkQuantity,
		BulkPrice:    input.BulkPrice,
		CostPerUnit:  perUnitCost(input.BulkPrice, input.BulkQuantity),
	}
	if err := db.WithContext(ctx).Create(&supplierPackaging).Error; err != nil {
		return nil, err
	}
	return &supplierPackaging, nil
}

func UpdateSupplierPackaging(ctx context.Context, id int, input *NewSupplierPackaging) (*SupplierPackaging, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	supplierPackaging, err := utils.FetchModel[SupplierPackaging](ctx, id)
	if err != nil {
		return nil, err
	}

	supplierPackaging.SupplierID = input.SupplierID
	supplierPackaging.PackagingID = input.PackagingID
	supplierPackaging.BulkQuantity = input.BulkQuantity
	supplierPackaging.BulkPrice = input.BulkPrice
	supplierPackaging.CostPerUnit = perUnitCost(input.BulkPrice, input.BulkQuantity)
	if err := db.WithContext(ctx).Save(supplierPackaging).Error; err != nil {
		return nil, err
	}
	return supplierPackaging, nil
}

func DeleteSupplierPackaging(ctx context.Context, id int) (*SupplierPackaging, error) {
	supplierPackaging, err := utils.FetchModel[SupplierPackaging](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[ProductVariant](ctx, "supplier_packaging_id", id,
		"cannot delete packaging that product variants still use"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(supplierPackaging).Error; err != nil {
		return nil, err
	}
	return supplierPackaging, nil
}

func GetSupplierPackaging(ctx context.Context, id int) (*SupplierPackaging, error) {
	return utils.FetchModel[SupplierPackaging](ctx, id, "Supplier", "Packaging")
}

func GetSupplierPackagings(ctx context.Context, supplierId *int) ([]*SupplierPackaging, error) {
	db := config.GetDB()
	var results []*SupplierPackaging

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Packaging")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
