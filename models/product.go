package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// RecipeRef names what a product's formulation points to: a recipe or one of
// its variants. Consumers resolve through the variant to the original recipe
// for recipe-level fields.
type RecipeRef struct {
	Kind RecipeRefKind `json:"kind"`
	ID   int           `json:"id"`
}

type Product struct {
	ID              int               `gorm:"primary_key" json:"id"`
	Name            string            `gorm:"size:255;not null" json:"name" binding:"required"`
	RecipeID        int               `gorm:"index;not null" json:"recipe_id" binding:"required"`
	IsRecipeVariant bool              `gorm:"not null;default:false" json:"is_recipe_variant"`
	Status          ProductStatus     `gorm:"size:20;not null;default:'Active'" json:"status"`
	Variants        []*ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Product) RecipeRef() RecipeRef {
	if p.IsRecipeVariant {
		return RecipeRef{Kind: RecipeRefKindVariant, ID: p.RecipeID}
	}
	return RecipeRef{Kind: RecipeRefKindRecipe, ID: p.RecipeID}
}

type NewProduct struct {
	Name            string        `json:"name" binding:"required"`
	RecipeID        int           `json:"recipe_id" binding:"required"`
	IsRecipeVariant bool          `json:"is_recipe_variant"`
	Status          ProductStatus `json:"status"`
}

func (input NewProduct) validate(ctx context.Context, exceptId int) error {
	if err := utils.ValidateUnique[Product](ctx, "name", input.Name, exceptId); err != nil {
		return errors.New("product with this name already exists")
	}
	if input.IsRecipeVariant {
		return utils.ValidateResourceId[RecipeVariant](ctx, input.RecipeID)
	}
	return utils.ValidateResourceId[Recipe](ctx, input.RecipeID)
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = ProductStatusActive
	}

	product := Product{
		Name:            input.Name,
		RecipeID:        input.RecipeID,
		IsRecipeVariant: input.IsRecipeVariant,
		Status:          status,
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.RecipeID = input.RecipeID
	product.IsRecipeVariant = input.IsRecipeVariant
	if input.Status != "" {
		product.Status = input.Status
	}
	if err := db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[ProductVariant](ctx, "product_id", id,
		"cannot delete product that still has variants"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id, "Variants")
}

func GetProducts(ctx context.Context, status *ProductStatus) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx).Preload("Variants")
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ResolvedFormulation is the ingredient source a product costs against after
// walking the recipe/variant indirection. Recipe is always the original
// recipe: recipe-level fields like the cost target come from it even when
// the ingredients come from a variant snapshot.
type ResolvedFormulation struct {
	Recipe      *Recipe
	Variant     *RecipeVariant
	Ingredients []*RecipeIngredient
}

// ResolveFormulation walks a product's recipe reference to its ingredient
// source.
func ResolveFormulation(ctx context.Context, product *Product) (*ResolvedFormulation, error) {
	switch product.RecipeRef().Kind {
	case RecipeRefKindVariant:
		variant, err := GetRecipeVariant(ctx, product.RecipeID)
		if err != nil {
			return nil, err
		}
		recipe, err := GetRecipe(ctx, variant.RecipeID)
		if err != nil {
			return nil, err
		}
		return &ResolvedFormulation{
			Recipe:      recipe,
			Variant:     variant,
			Ingredients: variantIngredientsAsRecipeLines(variant.Ingredients),
		}, nil
	default:
		recipe, err := GetRecipe(ctx, product.RecipeID)
		if err != nil {
			return nil, err
		}
		return &ResolvedFormulation{Recipe: recipe, Ingredients: recipe.Ingredients}, nil
	}
}
