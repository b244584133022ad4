package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// Category is a free-text label for materials. Names are normalized
// (trim + lowercase) for duplicate detection but stored as entered.
type Category struct {
	ID             int       `gorm:"primary_key" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name" binding:"required"`
	NormalizedName string    `gorm:"size:255;index;not null" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name string `json:"name" binding:"required"`
}

func (input NewCategory) validate(ctx context.Context, exceptId int) error {
	normalized := utils.NormalizeName(input.Name)
	if normalized == "" {
		return errors.New("category name is required")
	}
	if err := utils.ValidateUnique[Category](ctx, "normalized_name", normalized, exceptId); err != nil {
		return errors.New("category with this name already exists")
	}
	return nil
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	category := Category{
		Name:           input.Name,
		NormalizedName: utils.NormalizeName(input.Name),
	}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.NormalizedName = utils.NormalizeName(input.Name)
	if err := db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func DeleteCategory(ctx context.Context, id int) (*Category, error) {
	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[Material](ctx, "category_id", id,
		"cannot delete category that is still assigned to materials"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func GetCategories(ctx context.Context) ([]*Category, error) {
	db := config.GetDB()
	var results []*Category
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
