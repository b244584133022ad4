package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// Packaging is a container definition (jar, bottle, pouch) independent of
// who supplies it. Capacity describes what the container holds.
type Packaging struct {
	ID               int             `gorm:"primary_key" json:"id"`
	Name             string          `gorm:"size:255;not null" json:"name" binding:"required"`
	PackagingType    string          `gorm:"size:100;default:null" json:"packaging_type"`
	CapacityQuantity decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"capacity_quantity"`
	CapacityUnit     QuantityUnit    `gorm:"size:10;default:null" json:"capacity_unit"`
	Notes            string          `gorm:"type:text;default:null" json:"notes"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPackaging struct {
	Name             string          `json:"name" binding:"required"`
	PackagingType    string          `json:"packaging_type"`
	CapacityQuantity decimal.Decimal `json:"capacity_quantity"`
	CapacityUnit     string          `json:"capacity_unit"`
	Notes            string          `json:"notes"`
}

func (input NewPackaging) validate(ctx context.Context, exceptId int) (QuantityUnit, error) {
	var unit QuantityUnit
	if input.CapacityUnit != "" {
		if err := unit.Parse(input.CapacityUnit); err != nil {
			return unit, err
		}
	}
	if input.CapacityQuantity.LessThan(decimal.Zero) {
		return unit, errors.New("capacity cannot be negative")
	}
	if err := utils.ValidateUnique[Packaging](ctx, "name", input.Name, exceptId); err != nil {
		return unit, errors.New("packaging with this name already exists")
	}
	return unit, nil
}

func CreatePackaging(ctx context.Context, input *NewPackaging) (*Packaging, error) {
	db := config.GetDB()

	unit, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	packaging := Packaging{
		Name:             input.Name,
		PackagingType:    input.PackagingType,
		CapacityQuantity: input.CapacityQuantity,
		CapacityUnit:     unit,
		Notes:            input.Notes,
	}
	if err := db.WithContext(ctx).Create(&packaging).Error; err != nil {
		return nil, err
	}
	return &packaging, nil
}

func UpdatePackaging(ctx context.Context, id int, input *NewPackaging) (*Packaging, error) {
	db := config.GetDB()

	unit, err := input.validate(ctx, id)
	if err != nil {
		return nil, err
	}

	packaging, err := utils.FetchModel[Packaging](ctx, id)
	if err != nil {
		return nil, err
	}

	packaging.Name = input.Name
	packaging.PackagingType = input.PackagingType
	packaging.CapacityQuantity = input.CapacityQuantity
	packaging.CapacityUnit = unit
	packaging.Notes = input.Notes
	if err := db.WithContext(ctx).Save(packaging).Error; err != nil {
		return nil, err
	}
	return packaging, nil
}

func DeletePackaging(ctx context.Context, id int) (*Packaging, error) {
	packaging, err := utils.FetchModel[Packaging](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[SupplierPackaging](ctx, "packaging_id", id,
		"cannot delete packaging that suppliers still carry"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(packaging).Error; err != nil {
		return nil, err
	}
	return packaging, nil
}

func GetPackaging(ctx context.Context, id int) (*Packaging, error) {
	return utils.FetchModel[Packaging](ctx, id)
}

func GetPackagings(ctx context.Context) ([]*Packaging, error) {
	return utils.FetchAllModels[Packaging](ctx)
}
