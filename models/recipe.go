package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

type Recipe struct {
	ID              int                 `gorm:"primary_key" json:"id"`
	Name            string              `gorm:"size:255;not null" json:"name" binding:"required"`
	Description     string              `gorm:"type:text;default:null" json:"description"`
	TargetCostPerKg *decimal.Decimal    `gorm:"type:decimal(20,6);default:null" json:"target_cost_per_kg"`
	Status          RecipeStatus        `gorm:"size:20;not null;default:'Draft'" json:"status"`
	Ingredients     []*RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecipeIngredient ties a recipe line to a supplier material. The Locked*
// columns, when set, freeze the per-kg price and tax this line is costed at,
// insulating historical calculations from live supplier price changes.
type RecipeIngredient struct {
	ID                 int               `gorm:"primary_key" json:"id"`
	RecipeID           int               `gorm:"index;not null" json:"recipe_id"`
	SupplierMaterialID int               `gorm:"index;not null" json:"supplier_material_id"`
	SupplierMaterial   *SupplierMaterial `json:"supplier_material,omitempty"`
	Quantity           decimal.Decimal   `gorm:"type:decimal(20,6);not null" json:"quantity"`
	Unit               QuantityUnit      `gorm:"size:10;not null" json:"unit"`
	LockedUnitPrice    *decimal.Decimal  `gorm:"type:decimal(20,6);default:null" json:"locked_unit_price"`
	LockedTax          *decimal.Decimal  `gorm:"type:decimal(20,6);default:null" json:"locked_tax"`
	LockedAt           *time.Time        `gorm:"default:null" json:"locked_at"`
	LockReason         string            `gorm:"size:255;default:null" json:"lock_reason"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRecipeIngredient struct {
	SupplierMaterialID int             `json:"supplier_material_id" binding:"required"`
	Quantity           decimal.Decimal `json:"quantity" binding:"required"`
	Unit               string          `json:"unit" binding:"required"`
}

type NewRecipe struct {
	Name            string                `json:"name" binding:"required"`
	Description     string                `json:"description"`
	TargetCostPerKg *decimal.Decimal      `json:"target_cost_per_kg"`
	Status          RecipeStatus          `json:"status"`
	Ingredients     []NewRecipeIngredient `json:"ingredients"`
}

func (input NewRecipe) validate(ctx context.Context, exceptId int) ([]*RecipeIngredient, error) {
	if err := utils.ValidateUnique[Recipe](ctx, "name", input.Name, exceptId); err != nil {
		return nil, errors.New("recipe with this name already exists")
	}
	if input.TargetCostPerKg != nil && input.TargetCostPerKg.LessThan(decimal.Zero) {
		return nil, errors.New("target cost cannot be negative")
	}

	ingredients := make([]*RecipeIngredient, 0, len(input.Ingredients))
	for i, line := range input.Ingredients {
		var unit QuantityUnit
		if err := unit.Parse(line.Unit); err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		if unit == UnitPieces {
			return nil, fmt.Errorf("ingredient %d: unit must be a mass or volume unit", i+1)
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("ingredient %d: quantity must be positive", i+1)
		}
		if err := utils.ValidateResourceId[SupplierMaterial](ctx, line.SupplierMaterialID); err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		ingredients = append(ingredients, &RecipeIngredient{
			SupplierMaterialID: line.SupplierMaterialID,
			Quantity:           line.Quantity,
			Unit:               unit,
		})
	}
	return ingredients, nil
}

func CreateRecipe(ctx context.Context, input *NewRecipe) (*Recipe, error) {
	db := config.GetDB()

	ingredients, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = RecipeStatusDraft
	}

	recipe := Recipe{
		Name:            input.Name,
		Description:     input.Description,
		TargetCostPerKg: input.TargetCostPerKg,
		Status:          status,
	}

	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&recipe).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, ingredient := range ingredients {
		ingredient.RecipeID = recipe.ID
		if err := tx.Create(ingredient).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	recipe.Ingredients = ingredients
	return &recipe, nil
}

// UpdateRecipe replaces the recipe header and its full ingredient list in one
// transaction. Pricing locks do not survive an ingredient rewrite; locking is
// reapplied per line afterwards if wanted.
func UpdateRecipe(ctx context.Context, id int, input *NewRecipe) (*Recipe, error) {
	db := config.GetDB()

	ingredients, err := input.validate(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe, err := utils.FetchModel[Recipe](ctx, id)
	if err != nil {
		return nil, err
	}

	recipe.Name = input.Name
	recipe.Description = input.Description
	recipe.TargetCostPerKg = input.TargetCostPerKg
	if input.Status != "" {
		recipe.Status = input.Status
	}

	tx := db.WithContext(ctx).Begin()
	if err := tx.Save(recipe).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("recipe_id = ?", id).Delete(&RecipeIngredient{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, ingredient := range ingredients {
		ingredient.RecipeID = id
		if err := tx.Create(ingredient).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	recipe.Ingredients = ingredients
	return recipe, nil
}

func DeleteRecipe(ctx context.Context, id int) (*Recipe, error) {
	recipe, err := utils.FetchModel[Recipe](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Product](ctx, "recipe_id = ? AND is_recipe_variant = ?", id, false)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete recipe that products still use")
	}
	if err := utils.ValidateNotReferenced[RecipeVariant](ctx, "recipe_id", id,
		"cannot delete recipe that still has variants"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Where("recipe_id = ?", id).Delete(&RecipeIngredient{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(recipe).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

func GetRecipe(ctx context.Context, id int) (*Recipe, error) {
	return utils.FetchModel[Recipe](ctx, id, "Ingredients", "Ingredients.SupplierMaterial")
}

func GetRecipes(ctx context.Context, status *RecipeStatus) ([]*Recipe, error) {
	db := config.GetDB()
	var results []*Recipe

	dbCtx := db.WithContext(ctx).Preload("Ingredients")
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// LockIngredientPricing snapshots the current live supplier price onto the
// ingredient line.
func LockIngredientPricing(ctx context.Context, ingredientId int, reason string) (*RecipeIngredient, error) {
	db := config.GetDB()

	ingredient, err := utils.FetchModel[RecipeIngredient](ctx, ingredientId)
	if err != nil {
		return nil, err
	}
	supplierMaterial, err := utils.FetchModel[SupplierMaterial](ctx, ingredient.SupplierMaterialID)
	if err != nil {
		return nil, errors.New("cannot lock pricing: supplier material no longer exists")
	}

	now := time.Now()
	unitPrice := supplierMaterial.CostPerKg
	tax := supplierMaterial.Tax
	ingredient.LockedUnitPrice = &unitPrice
	ingredient.LockedTax = &tax
	ingredient.LockedAt = &now
	ingredient.LockReason = reason

	if err := db.WithContext(ctx).Save(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func UnlockIngredientPricing(ctx context.Context, ingredientId int) (*RecipeIngredient, error) {
	db := config.GetDB()

	ingredient, err := utils.FetchModel[RecipeIngredient](ctx, ingredientId)
	if err != nil {
		return nil, err
	}

	ingredient.LockedUnitPrice = nil
	ingredient.LockedTax = nil
	ingredient.LockedAt = nil
	ingredient.LockReason = ""

	if err := db.WithContext(ctx).Select("LockedUnitPrice", "LockedTax", "LockedAt", "LockReason").
		Save(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

// PriceLookupForIngredients loads the live per-kg pricing for every supplier
// material an ingredient list references. Deleted supplier materials simply
// do not appear in the map. Hot lookups go through Redis when the price
// cache flag is on.
func PriceLookupForIngredients(ctx context.Context, ingredients []*RecipeIngredient) (map[int]PricingInfo, error) {
	db := config.GetDB()

	ids := make([]int, 0, len(ingredients))
	for _, ingredient := range ingredients {
		ids = append(ids, ingredient.SupplierMaterialID)
	}
	ids = utils.UniqueSlice(ids)
	if len(ids) == 0 {
		return map[int]PricingInfo{}, nil
	}

	prices := make(map[int]PricingInfo, len(ids))
	missing := make([]int, 0, len(ids))

	if config.PriceLookupCacheEnabled() {
		for _, id := range ids {
			var cached PricingInfo
			found, err := config.GetRedisObject(fmt.Sprintf("PriceInfo:%d", id), &cached)
			if err == nil && found {
				prices[id] = cached
				continue
			}
			missing = append(missing, id)
		}
	} else {
		missing = ids
	}

	if len(missing) > 0 {
		var rows []*SupplierMaterial
		if err := db.WithContext(ctx).Where("id IN ?", missing).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			info := PricingInfo{UnitPrice: row.CostPerKg, Tax: row.Tax}
			prices[row.ID] = info
			if config.PriceLookupCacheEnabled() {
				_ = config.SetRedisObject(fmt.Sprintf("PriceInfo:%d", row.ID), info, 5*time.Minute)
			}
		}
	}
	return prices, nil
}

// GetRecipeCost recomputes the full cost summary for a recipe from its
// ingredients and current (or locked) pricing.
func GetRecipeCost(ctx context.Context, id int) (*RecipeCostSummary, error) {
	recipe, err := GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	prices, err := PriceLookupForIngredients(ctx, recipe.Ingredients)
	if err != nil {
		return nil, err
	}

	summary := CalculateRecipeTotals(recipe.Ingredients, prices, recipe.TargetCostPerKg)
	return &summary, nil
}
