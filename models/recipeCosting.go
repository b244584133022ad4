package models

import (
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// PricingInfo is a live per-kg price for a supplier material: the base price
// and its tax rate in percent.
type PricingInfo struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Tax       decimal.Decimal `json:"tax"`
}

// ResolvedPricing is the effective price an ingredient is costed at, with a
// flag recording whether a locked snapshot supplied it.
type ResolvedPricing struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Tax       decimal.Decimal `json:"tax"`
	IsLocked  bool            `json:"is_locked"`
}

// ResolveIngredientPricing picks the effective price for an ingredient. A
// locked snapshot wins verbatim over the live supplier price; live price
// drift never leaks into locked cost calculations.
func ResolveIngredientPricing(ingredient *RecipeIngredient, live PricingInfo) ResolvedPricing {
	if ingredient != nil && ingredient.LockedUnitPrice != nil {
		resolved := ResolvedPricing{
			UnitPrice: *ingredient.LockedUnitPrice,
			IsLocked:  true,
		}
		if ingredient.LockedTax != nil {
			resolved.Tax = *ingredient.LockedTax
		}
		return resolved
	}
	return ResolvedPricing{UnitPrice: live.UnitPrice, Tax: live.Tax}
}

// IngredientCostLine is one ingredient's contribution to a recipe's cost.
type IngredientCostLine struct {
	SupplierMaterialID int             `json:"supplier_material_id"`
	QuantityKg         decimal.Decimal `json:"quantity_kg"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Tax                decimal.Decimal `json:"tax"`
	IsLocked           bool            `json:"is_locked"`
	Cost               decimal.Decimal `json:"cost"`
	CostWithTax        decimal.Decimal `json:"cost_with_tax"`
	PricingMissing     bool            `json:"pricing_missing"`
}

// RecipeCostSummary is the derived cost picture of a recipe. CostPerKg is
// never stored; it is recomputed from ingredients plus live or locked pricing
// every time it is needed.
type RecipeCostSummary struct {
	Lines            []IngredientCostLine `json:"lines"`
	TotalCost        decimal.Decimal      `json:"total_cost"`
	TotalCostWithTax decimal.Decimal      `json:"total_cost_with_tax"`
	TotalWeightGrams decimal.Decimal      `json:"total_weight_grams"`
	CostPerKg        decimal.Decimal      `json:"cost_per_kg"`
	TaxedCostPerKg   decimal.Decimal      `json:"taxed_cost_per_kg"`

	TargetCostPerKg    *decimal.Decimal `json:"target_cost_per_kg,omitempty"`
	VarianceFromTarget *decimal.Decimal `json:"variance_from_target,omitempty"`
	VariancePercentage *decimal.Decimal `json:"variance_percentage,omitempty"`
	IsAboveTarget      bool             `json:"is_above_target"`
}

// CalculateRecipeTotals costs an ingredient list against a per-kg price
// lookup. Ingredients with no lookup entry contribute zero cost and zero
// weight, silently: a supplier material can be deleted out from under a
// recipe and the recipe must stay viewable. Zero total weight yields zero
// per-kg figures, never a division error.
func CalculateRecipeTotals(ingredients []*RecipeIngredient, prices map[int]PricingInfo, targetCostPerKg *decimal.Decimal) RecipeCostSummary {
	summary := RecipeCostSummary{Lines: make([]IngredientCostLine, 0, len(ingredients))}

	for _, ingredient := range ingredients {
		live, tracked := prices[ingredient.SupplierMaterialID]
		if !tracked && ingredient.LockedUnitPrice == nil {
			summary.Lines = append(summary.Lines, IngredientCostLine{
				SupplierMaterialID: ingredient.SupplierMaterialID,
				PricingMissing:     true,
			})
			continue
		}

		resolved := ResolveIngredientPricing(ingredient, live)
		quantityKg := NormalizeToKg(ingredient.Quantity, ingredient.Unit)
		cost := resolved.UnitPrice.Mul(quantityKg)
		costWithTax := cost.Mul(decimal.NewFromInt(1).Add(resolved.Tax.Div(decimalHundred)))

		summary.Lines = append(summary.Lines, IngredientCostLine{
			SupplierMaterialID: ingredient.SupplierMaterialID,
			QuantityKg:         quantityKg,
			UnitPrice:          resolved.UnitPrice,
			Tax:                resolved.Tax,
			IsLocked:           resolved.IsLocked,
			Cost:               cost,
			CostWithTax:        costWithTax,
		})

		summary.TotalCost = summary.TotalCost.Add(cost)
		summary.TotalCostWithTax = summary.TotalCostWithTax.Add(costWithTax)
		summary.TotalWeightGrams = summary.TotalWeightGrams.Add(NormalizeToGrams(ingredient.Quantity, ingredient.Unit))
	}

	if summary.TotalWeightGrams.GreaterThan(decimal.Zero) {
		totalWeightKg := summary.TotalWeightGrams.Div(decimalThousand)
		summary.CostPerKg = summary.TotalCost.Div(totalWeightKg)
		summary.TaxedCostPerKg = summary.TotalCostWithTax.Div(totalWeightKg)
	}

	if targetCostPerKg != nil {
		target := *targetCostPerKg
		summary.TargetCostPerKg = &target
		variance := summary.CostPerKg.Sub(target)
		summary.VarianceFromTarget = &variance
		if target.GreaterThan(decimal.Zero) {
			percentage := variance.Div(target).Mul(decimalHundred)
			summary.VariancePercentage = &percentage
		}
		summary.IsAboveTarget = variance.GreaterThan(decimal.Zero)
	}
	return summary
}
