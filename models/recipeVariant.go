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

// RecipeVariant is an immutable alternative composition of a recipe, used
// for cost experimentation. It owns its own ingredient snapshot and never
// reads the live recipe's ingredients; the original recipe can change freely
// without affecting the variant.
type RecipeVariant struct {
	ID          int                        `gorm:"primary_key" json:"id"`
	RecipeID    int                        `gorm:"index;not null" json:"recipe_id" binding:"required"`
	Recipe      *Recipe                    `json:"recipe,omitempty"`
	Name        string                     `gorm:"size:255;not null" json:"name" binding:"required"`
	Notes       string                     `gorm:"type:text;default:null" json:"notes"`
	Ingredients []*RecipeVariantIngredient `gorm:"foreignKey:RecipeVariantID" json:"ingredients"`
	Changes     []*RecipeVariantChange     `gorm:"foreignKey:RecipeVariantID" json:"changes"`
	CreatedAt   time.Time                  `gorm:"autoCreateTime" json:"created_at"`
}

type RecipeVariantIngredient struct {
	ID                 int               `gorm:"primary_key" json:"id"`
	RecipeVariantID    int               `gorm:"index;not null" json:"recipe_variant_id"`
	SupplierMaterialID int               `gorm:"index;not null" json:"supplier_material_id"`
	SupplierMaterial   *SupplierMaterial `json:"supplier_material,omitempty"`
	Quantity           decimal.Decimal   `gorm:"type:decimal(20,6);not null" json:"quantity"`
	Unit               QuantityUnit      `gorm:"size:10;not null" json:"unit"`
}

// RecipeVariantChange is one audit record of how the variant differs from
// the original recipe at creation time.
type RecipeVariantChange struct {
	ID              int                     `gorm:"primary_key" json:"id"`
	RecipeVariantID int                     `gorm:"index;not null" json:"recipe_variant_id"`
	ChangeType      RecipeVariantChangeType `gorm:"size:30;not null" json:"change_type"`
	MaterialID      int                     `gorm:"default:null" json:"material_id"`
	OldValue        string                  `gorm:"size:255;default:null" json:"old_value"`
	NewValue        string                  `gorm:"size:255;default:null" json:"new_value"`
	CreatedAt       time.Time               `gorm:"autoCreateTime" json:"created_at"`
}

type NewRecipeVariant struct {
	RecipeID    int                   `json:"recipe_id" binding:"required"`
	Name        string                `json:"name" binding:"required"`
	Notes       string                `json:"notes"`
	Ingredients []NewRecipeIngredient `json:"ingredients" binding:"required"`
}

// DeriveVariantChanges diffs a variant's ingredient snapshot against the
// original recipe lines. Lines for the same material with a different
// quantity record a quantity change; the same material sourced from a
// different supplier material records a supplier change. materialOf maps
// supplierMaterialId to materialId.
func DeriveVariantChanges(original []*RecipeIngredient, snapshot []*RecipeVariantIngredient, materialOf map[int]int) []*RecipeVariantChange {
	originalByMaterial := make(map[int]*RecipeIngredient, len(original))
	for _, line := range original {
		if materialId, ok := materialOf[line.SupplierMaterialID]; ok {
			originalByMaterial[materialId] = line
		}
	}

	var changes []*RecipeVariantChange
	for _, line := range snapshot {
		materialId, ok := materialOf[line.SupplierMaterialID]
		if !ok {
			continue
		}
		originalLine, ok := originalByMaterial[materialId]
		if !ok {
			continue
		}
		if originalLine.SupplierMaterialID != line.SupplierMaterialID {
			changes = append(changes, &RecipeVariantChange{
				ChangeType: VariantChangeSupplier,
				MaterialID: materialId,
				OldValue:   fmt.Sprintf("%d", originalLine.SupplierMaterialID),
				NewValue:   fmt.Sprintf("%d", line.SupplierMaterialID),
			})
		}
		originalKg := NormalizeToKg(originalLine.Quantity, originalLine.Unit)
		snapshotKg := NormalizeToKg(line.Quantity, line.Unit)
		if !originalKg.Equal(snapshotKg) {
			changes = append(changes, &RecipeVariantChange{
				ChangeType: VariantChangeQuantity,
				MaterialID: materialId,
				OldValue:   FormatQuantity(originalLine.Quantity, originalLine.Unit),
				NewValue:   FormatQuantity(line.Quantity, line.Unit),
			})
		}
	}
	return changes
}

func CreateRecipeVariant(ctx context.Context, input *NewRecipeVariant) (*RecipeVariant, error) {
	db := config.GetDB()

	recipe, err := GetRecipe(ctx, input.RecipeID)
	if err != nil {
		return nil, err
	}
	if len(input.Ingredients) == 0 {
		return nil, errors.New("variant needs at least one ingredient")
	}

	snapshot := make([]*RecipeVariantIngredient, 0, len(input.Ingredients))
	supplierMaterialIds := make([]int, 0, len(input.Ingredients))
	for i, line := range input.Ingredients {
		var unit QuantityUnit
		if err := unit.Parse(line.Unit); err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("ingredient %d: quantity must be positive", i+1)
		}
		if err := utils.ValidateResourceId[SupplierMaterial](ctx, line.SupplierMaterialID); err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		snapshot = append(snapshot, &RecipeVariantIngredient{
			SupplierMaterialID: line.SupplierMaterialID,
			Quantity:           line.Quantity,
			Unit:               unit,
		})
		supplierMaterialIds = append(supplierMaterialIds, line.SupplierMaterialID)
	}
	for _, line := range recipe.Ingredients {
		supplierMaterialIds = append(supplierMaterialIds, line.SupplierMaterialID)
	}

	materialOf, err := materialLookup(ctx, utils.UniqueSlice(supplierMaterialIds))
	if err != nil {
		return nil, err
	}
	changes := DeriveVariantChanges(recipe.Ingredients, snapshot, materialOf)

	variant := RecipeVariant{
		RecipeID: input.RecipeID,
		Name:     input.Name,
		Notes:    input.Notes,
	}

	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&variant).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, line := range snapshot {
		line.RecipeVariantID = variant.ID
		if err := tx.Create(line).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	for _, change := range changes {
		change.RecipeVariantID = variant.ID
		if err := tx.Create(change).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	variant.Ingredients = snapshot
	variant.Changes = changes
	return &variant, nil
}

func materialLookup(ctx context.Context, supplierMaterialIds []int) (map[int]int, error) {
	db := config.GetDB()
	lookup := make(map[int]int, len(supplierMaterialIds))
	if len(supplierMaterialIds) == 0 {
		return lookup, nil
	}

	var rows []*SupplierMaterial
	if err := db.WithContext(ctx).Where("id IN ?", supplierMaterialIds).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		lookup[row.ID] = row.MaterialID
	}
	return lookup, nil
}

// DeleteRecipeVariant removes a variant and its snapshot. The snapshot is
// otherwise immutable; there is deliberately no update operation.
func DeleteRecipeVariant(ctx context.Context, id int) (*RecipeVariant, error) {
	variant, err := utils.FetchModel[RecipeVariant](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Product](ctx, "recipe_id = ? AND is_recipe_variant = ?", id, true)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete recipe variant that products still use")
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Where("recipe_variant_id = ?", id).Delete(&RecipeVariantIngredient{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("recipe_variant_id = ?", id).Delete(&RecipeVariantChange{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(variant).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return variant, nil
}

func GetRecipeVariant(ctx context.Context, id int) (*RecipeVariant, error) {
	return utils.FetchModel[RecipeVariant](ctx, id, "Ingredients", "Ingredients.SupplierMaterial", "Changes")
}

func GetRecipeVariants(ctx context.Context, recipeId *int) ([]*RecipeVariant, error) {
	db := config.GetDB()
	var results []*RecipeVariant

	dbCtx := db.WithContext(ctx).Preload("Ingredients").Preload("Changes")
	if recipeId != nil {
		dbCtx = dbCtx.Where("recipe_id = ?", *recipeId)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// variantIngredientsAsRecipeLines adapts a variant snapshot to the recipe
// costing input shape. Variant lines carry no pricing locks.
func variantIngredientsAsRecipeLines(snapshot []*RecipeVariantIngredient) []*RecipeIngredient {
	lines := make([]*RecipeIngredient, 0, len(snapshot))
	for _, line := range snapshot {
		lines = append(lines, &RecipeIngredient{
			SupplierMaterialID: line.SupplierMaterialID,
			Quantity:           line.Quantity,
			Unit:               line.Unit,
		})
	}
	return lines
}

// VariantCostComparison sets a variant's derived cost against its original
// recipe's.
type VariantCostComparison struct {
	Variant         RecipeCostSummary `json:"variant"`
	Original        RecipeCostSummary `json:"original"`
	CostPerKgDelta  decimal.Decimal   `json:"cost_per_kg_delta"`
	DeltaPercentage decimal.Decimal   `json:"delta_percentage"`
	IsCheaper       bool              `json:"is_cheaper"`
}

func GetRecipeVariantCost(ctx context.Context, id int) (*VariantCostComparison, error) {
	variant, err := GetRecipeVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe, err := GetRecipe(ctx, variant.RecipeID)
	if err != nil {
		return nil, err
	}

	variantLines := variantIngredientsAsRecipeLines(variant.Ingredients)
	allLines := append(append([]*RecipeIngredient{}, variantLines...), recipe.Ingredients...)
	prices, err := PriceLookupForIngredients(ctx, allLines)
	if err != nil {
		return nil, err
	}

	comparison := VariantCostComparison{
		Variant:  CalculateRecipeTotals(variantLines, prices, recipe.TargetCostPerKg),
		Original: CalculateRecipeTotals(recipe.Ingredients, prices, recipe.TargetCostPerKg),
	}
	comparison.CostPerKgDelta = comparison.Variant.CostPerKg.Sub(comparison.Original.CostPerKg)
	if comparison.Original.CostPerKg.GreaterThan(decimal.Zero) {
		comparison.DeltaPercentage = comparison.CostPerKgDelta.Div(comparison.Original.CostPerKg).Mul(decimalHundred)
	}
	comparison.IsCheaper = comparison.CostPerKgDelta.LessThan(decimal.Zero)
	return &comparison, nil
}
