package models

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// SupplierMaterial is one supplier's offering of a material: a bulk pack
// size, its price, and a tax rate in percent. CostPerKg is derived from the
// bulk figures and stored so costing reads never recompute it.
type SupplierMaterial struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SupplierID   int             `gorm:"index;not null" json:"supplier_id" binding:"required"`
	Supplier     *Supplier       `json:"supplier,omitempty"`
	MaterialID   int             `gorm:"index;not null" json:"material_id" binding:"required"`
	Material     *Material       `json:"material,omitempty"`
	BrandName    string          `gorm:"size:255;default:null" json:"brand_name"`
	BulkQuantity decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"bulk_quantity"`
	BulkUnit     QuantityUnit    `gorm:"size:10;not null" json:"bulk_unit"`
	BulkPrice    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"bulk_price"`
	Tax          decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"tax"`
	CostPerKg    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"cost_per_kg"`
	IsPreferred  *bool           `gorm:"not null;default:false" json:"is_preferred"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplierMaterial struct {
	SupplierID   int             `json:"supplier_id" binding:"required"`
	MaterialID   int             `json:"material_id" binding:"required"`
	BrandName    string          `json:"brand_name"`
	BulkQuantity decimal.Decimal `json:"bulk_quantity" binding:"required"`
	BulkUnit     string          `json:"bulk_unit" binding:"required"`
	BulkPrice    decimal.Decimal `json:"bulk_price" binding:"required"`
	Tax          decimal.Decimal `json:"tax"`
	IsPreferred  *bool           `json:"is_preferred"`
}

func (input NewSupplierMaterial) validate(ctx context.Context, exceptId int) (QuantityUnit, error) {
	var unit QuantityUnit
	if err := unit.Parse(input.BulkUnit); err != nil {
		return unit, err
	}
	if unit == UnitPieces {
		return unit, errors.New("material pricing requires a mass or volume unit")
	}
	if input.BulkQuantity.LessThanOrEqual(decimal.Zero) {
		return unit, errors.New("bulk quantity must be positive")
	}
	if input.BulkPrice.LessThan(decimal.Zero) || input.Tax.LessThan(decimal.Zero) {
		return unit, errors.New("prices cannot be negative")
	}
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierID); err != nil {
		return unit, err
	}
	if err := utils.ValidateResourceId[Material](ctx, input.MaterialID); err != nil {
		return unit, err
	}

	// One row per (supplier, material, pack size). The same supplier may
	// carry multiple pack sizes of a material.
	count, err := utils.ResourceCountWhere[SupplierMaterial](ctx,
		"supplier_id = ? AND material_id = ? AND bulk_quantity = ? AND bulk_unit = ? AND id != ?",
		input.SupplierID, input.MaterialID, input.BulkQuantity, unit, exceptId)
	if err != nil {
		return unit, err
	}
	if count > 0 {
		return unit, errors.New("this supplier already carries this material at this pack size")
	}
	return unit, nil
}

func costPerKg(bulkPrice, bulkQuantity decimal.Decimal, bulkUnit QuantityUnit) decimal.Decimal {
	kg := NormalizeToKg(bulkQuantity, bulkUnit)
	if kg.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return bulkPrice.Div(kg)
}

func CreateSupplierMaterial(ctx context.Context, input *NewSupplierMaterial) (*SupplierMaterial, error) {
	db := config.GetDB()

	unit, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	isPreferred := input.IsPreferred
	if isPreferred == nil {
		isPreferred = utils.NewFalse()
	}

	supplierMaterial := SupplierMaterial{
		SupplierID:   input.SupplierID,
		MaterialID:   input.MaterialID,
		BrandName:    input.BrandName,
		BulkQuantity: input.BulkQuantity,
		BulkUnit:     unit,
		BulkPrice:    input.BulkPrice,
		Tax:          input.Tax,
		CostPerKg:    costPerKg(input.BulkPrice, input.BulkQuantity, unit),
		IsPreferred:  isPreferred,
	}
	if err := db.WithContext(ctx).Create(&supplierMaterial).Error; err != nil {
		return nil, err
	}
	return &supplierMaterial, nil
}

func UpdateSupplierMaterial(ctx context.Context, id int, input *NewSupplierMaterial) (*SupplierMaterial, error) {
	db := config.GetDB()

	unit, err := input.validate(ctx, id)
	if err != nil {
		return nil, err
	}

	supplierMaterial, err := utils.FetchModel[SupplierMaterial](ctx, id)
	if err != nil {
		return nil, err
	}

	supplierMaterial.SupplierID = input.SupplierID
	supplierMaterial.MaterialID = input.MaterialID
	supplierMaterial.BrandName = input.BrandName
	supplierMaterial.BulkQuantity = input.BulkQuantity
	supplierMaterial.BulkUnit = unit
	supplierMaterial.BulkPrice = input.BulkPrice
	supplierMaterial.Tax = input.Tax
	supplierMaterial.CostPerKg = costPerKg(input.BulkPrice, input.BulkQuantity, unit)
	if input.IsPreferred != nil {
		supplierMaterial.IsPreferred = input.IsPreferred
	}

	if err := db.WithContext(ctx).Save(supplierMaterial).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(fmt.Sprintf("PriceInfo:%d", id))
	return supplierMaterial, nil
}

func DeleteSupplierMaterial(ctx context.Context, id int) (*SupplierMaterial, error) {
	supplierMaterial, err := utils.FetchModel[SupplierMaterial](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[RecipeIngredient](ctx, "supplier_material_id", id,
		"cannot delete a supplier material that recipes still use"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(supplierMaterial).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(fmt.Sprintf("PriceInfo:%d", id))
	return supplierMaterial, nil
}

func GetSupplierMaterial(ctx context.Context, id int) (*SupplierMaterial, error) {
	return utils.FetchModel[SupplierMaterial](ctx, id, "Supplier", "Material")
}

func GetSupplierMaterials(ctx context.Context, supplierId, materialId *int) ([]*SupplierMaterial, error) {
	db := config.GetDB()
	var results []*SupplierMaterial

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Material")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if materialId != nil {
		dbCtx = dbCtx.Where("material_id = ?", *materialId)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MaterialPriceQuote is one supplier's effective per-kg price for a material,
// used for cross-supplier comparison.
type MaterialPriceQuote struct {
	SupplierMaterialID int             `json:"supplier_material_id"`
	SupplierID         int             `json:"supplier_id"`
	SupplierName       string          `json:"supplier_name"`
	BrandName          string          `json:"brand_name"`
	CostPerKg          decimal.Decimal `json:"cost_per_kg"`
	Tax                decimal.Decimal `json:"tax"`
	EffectivePerKg     decimal.Decimal `json:"effective_per_kg"`
	IsPreferred        bool            `json:"is_preferred"`
}

// CompareMaterialPrices lists every supplier offering of a material ordered
// by tax-inclusive per-kg price, cheapest first.
func CompareMaterialPrices(ctx context.Context, materialId int) ([]*MaterialPriceQuote, error) {
	if err := utils.ValidateResourceId[Material](ctx, materialId); err != nil {
		return nil, err
	}

	offerings, err := GetSupplierMaterials(ctx, nil, &materialId)
	if err != nil {
		return nil, err
	}

	quotes := make([]*MaterialPriceQuote, 0, len(offerings))
	for _, offering := range offerings {
		quote := MaterialPriceQuote{
			SupplierMaterialID: offering.ID,
			SupplierID:         offering.SupplierID,
			BrandName:          offering.BrandName,
			CostPerKg:          offering.CostPerKg,
			Tax:                offering.Tax,
			EffectivePerKg:     offering.CostPerKg.Mul(decimal.NewFromInt(1).Add(offering.Tax.Div(decimalHundred))),
			IsPreferred:        utils.DereferencePtr(offering.IsPreferred),
		}
		if offering.Supplier != nil {
			quote.SupplierName = offering.Supplier.Name
		}
		quotes = append(quotes, &quote)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].EffectivePerKg.LessThan(quotes[j].EffectivePerKg)
	})
	return quotes, nil
}
