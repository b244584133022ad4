package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// ProductVariant is one packaged size/SKU of a product: the single-unit fill
// size, the packaging and label selections, and the selling price.
type ProductVariant struct {
	ID                  int                `gorm:"primary_key" json:"id"`
	ProductID           int                `gorm:"index;not null" json:"product_id" binding:"required"`
	Product             *Product           `json:"product,omitempty"`
	Name                string             `gorm:"size:255;not null" json:"name" binding:"required"`
	SKU                 string             `gorm:"size:100;default:null" json:"sku"`
	FillQuantity        decimal.Decimal    `gorm:"type:decimal(20,6);not null" json:"fill_quantity"`
	FillUnit            QuantityUnit       `gorm:"size:10;not null" json:"fill_unit"`
	SupplierPackagingID *int               `gorm:"index;default:null" json:"supplier_packaging_id"`
	SupplierPackaging   *SupplierPackaging `json:"supplier_packaging,omitempty"`
	FrontLabelID        *int               `gorm:"index;default:null" json:"front_label_id"`
	FrontLabel          *SupplierLabel     `gorm:"foreignKey:FrontLabelID" json:"front_label,omitempty"`
	BackLabelID         *int               `gorm:"index;default:null" json:"back_label_id"`
	BackLabel           *SupplierLabel     `gorm:"foreignKey:BackLabelID" json:"back_label,omitempty"`
	LabelsPerUnit       int                `gorm:"not null;default:1" json:"labels_per_unit"`
	SellingPricePerUnit decimal.Decimal    `gorm:"type:decimal(20,6);not null;default:0" json:"selling_price_per_unit"`
	IsActive            *bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductVariant struct {
	ProductID           int             `json:"product_id" binding:"required"`
	Name                string          `json:"name" binding:"required"`
	SKU                 string          `json:"sku"`
	FillQuantity        decimal.Decimal `json:"fill_quantity" binding:"required"`
	FillUnit            string          `json:"fill_unit" binding:"required"`
	SupplierPackagingID *int            `json:"supplier_packaging_id"`
	FrontLabelID        *int            `json:"front_label_id"`
	BackLabelID         *int            `json:"back_label_id"`
	LabelsPerUnit       int             `json:"labels_per_unit"`
	SellingPricePerUnit decimal.Decimal `json:"selling_price_per_unit"`
	IsActive            *bool           `json:"is_active"`
}

func (input NewProductVariant) validate(ctx context.Context, exceptId int) (QuantityUnit, error) {
	var unit QuantityUnit
	if err := unit.Parse(input.FillUnit); err != nil {
		return unit, err
	}
	if unit == UnitPieces {
		return unit, errors.New("fill unit must be a mass or volume unit")
	}
	if input.FillQuantity.LessThanOrEqual(decimal.Zero) {
		return unit, errors.New("fill quantity must be positive")
	}
	if input.SellingPricePerUnit.LessThan(decimal.Zero) {
		return unit, errors.New("selling price cannot be negative")
	}
	if input.LabelsPerUnit < 0 {
		return unit, errors.New("labels per unit cannot be negative")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductID); err != nil {
		return unit, err
	}
	if input.SupplierPackagingID != nil {
		if err := utils.ValidateResourceId[SupplierPackaging](ctx, *input.SupplierPackagingID); err != nil {
			return unit, err
		}
	}
	if input.FrontLabelID != nil {
		if err := utils.ValidateResourceId[SupplierLabel](ctx, *input.FrontLabelID); err != nil {
			return unit, err
		}
	}
	if input.BackLabelID != nil {
		if err := utils.ValidateResourceId[SupplierLabel](ctx, *input.BackLabelID); err != nil {
			return unit, err
		}
	}
	if input.SKU != "" {
		if err := utils.ValidateUnique[ProductVariant](ctx, "sku", input.SKU, exceptId); err != nil {
			return unit, errors.New("product variant with this SKU already exists")
		}
	}
	return unit, nil
}

func CreateProductVariant(ctx context.Context, input *NewProductVariant) (*ProductVariant, error) {
	db := config.GetDB()

	unit, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	labelsPerUnit := input.LabelsPerUnit
	if labelsPerUnit == 0 {
		labelsPerUnit = 1
	}
	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	variant := ProductVariant{
		ProductID:           input.ProductID,
		Name:                input.Name,
		SKU:                 input.SKU,
		FillQuantity:        input.FillQuantity,
		FillUnit:            unit,
		SupplierPackagingID: input.SupplierPackagingID,
		FrontLabelID:        input.FrontLabelID,
		BackLabelID:         input.BackLabelID,
		LabelsPerUnit:       labelsPerUnit,
		SellingPricePerUnit: input.SellingPricePerUnit,
		IsActive:            isActive,
	}
	if err := db.WithContext(ctx).Create(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func UpdateProductVariant(ctx context.Context, id int, input *NewProductVariant) (*ProductVariant, error) {
	db := config.GetDB()

	unit, err := input.validate(ctx, id)
	if err != nil {
		return nil, err
	}

	variant, err := utils.FetchModel[ProductVariant](ctx, id)
	if err != nil {
		return nil, err
	}

	variant.ProductID = input.ProductID
	variant.Name = input.Name
	variant.SKU = input.SKU
	variant.FillQuantity = input.FillQuantity
	variant.FillUnit = unit
	variant.SupplierPackagingID = input.SupplierPackagingID
	variant.FrontLabelID = input.FrontLabelID
	variant.BackLabelID = input.BackLabelID
	if input.LabelsPerUnit > 0 {
		variant.LabelsPerUnit = input.LabelsPerUnit
	}
	variant.SellingPricePerUnit = input.SellingPricePerUnit
	if input.IsActive != nil {
		variant.IsActive = input.IsActive
	}
	if err := db.WithContext(ctx).Save(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

func DeleteProductVariant(ctx context.Context, id int) (*ProductVariant, error) {
	variant, err := utils.FetchModel[ProductVariant](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[ProductionBatchVariant](ctx, "product_variant_id", id,
		"cannot delete product variant that production batches still use"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

func GetProductVariant(ctx context.Context, id int) (*ProductVariant, error) {
	return utils.FetchModel[ProductVariant](ctx, id,
		"Product", "SupplierPackaging", "SupplierPackaging.Packaging",
		"FrontLabel", "FrontLabel.Label", "BackLabel", "BackLabel.Label")
}

func GetProductVariants(ctx context.Context, productId *int) ([]*ProductVariant, error) {
	db := config.GetDB()
	var results []*ProductVariant

	dbCtx := db.WithContext(ctx).Preload("Product")
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
