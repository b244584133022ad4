package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// Material is the abstract ingredient ("Sugar"); supplier-specific pricing
// lives on SupplierMaterial rows that reference it.
type Material struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name" binding:"required"`
	CategoryID *int      `gorm:"index;default:null" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	Notes      string    `gorm:"type:text;default:null" json:"notes"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMaterial struct {
	Name       string `json:"name" binding:"required"`
	CategoryID *int   `json:"category_id"`
	Notes      string `json:"notes"`
}

func (input NewMaterial) validate(ctx context.Context, exceptId int) error {
	if input.CategoryID != nil {
		if err := utils.ValidateResourceId[Category](ctx, *input.CategoryID); err != nil {
			return err
		}
	}

	// Near-duplicate names ("Suger" next to "Sugar") are rejected, not just
	// exact matches.
	existing, err := GetMaterials(ctx, nil)
	if err != nil {
		return err
	}
	var names []string
	for _, material := range existing {
		if material.ID == exceptId {
			continue
		}
		names = append(names, material.Name)
	}
	if matches := utils.FindSimilarNames(input.Name, names); len(matches) > 0 {
		return fmt.Errorf("material name %q is too similar to existing material %q", input.Name, matches[0])
	}
	return nil
}

func CreateMaterial(ctx context.Context, input *NewMaterial) (*Material, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	material := Material{
		Name:       input.Name,
		CategoryID: input.CategoryID,
		Notes:      input.Notes,
	}
	if err := db.WithContext(ctx).Create(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func UpdateMaterial(ctx context.Context, id int, input *NewMaterial) (*Material, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	material, err := utils.FetchModel[Material](ctx, id)
	if err != nil {
		return nil, err
	}

	material.Name = input.Name
	material.CategoryID = input.CategoryID
	material.Notes = input.Notes
	if err := db.WithContext(ctx).Save(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

func DeleteMaterial(ctx context.Context, id int) (*Material, error) {
	material, err := utils.FetchModel[Material](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[SupplierMaterial](ctx, "material_id", id,
		"cannot delete material that suppliers still carry"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

func GetMaterial(ctx context.Context, id int) (*Material, error) {
	return utils.FetchModel[Material](ctx, id, "Category")
}

func GetMaterials(ctx context.Context, categoryId *int) ([]*Material, error) {
	db := config.GetDB()
	var results []*Material

	dbCtx := db.WithContext(ctx).Preload("Category")
	if categoryId != nil {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
