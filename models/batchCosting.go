package models

import (
	"context"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// ItemPricing is a per-unit price with a tax rate in percent, for packaging
// and label items.
type ItemPricing struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Tax       decimal.Decimal `json:"tax"`
}

func (p ItemPricing) withTax() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(1).Add(p.Tax.Div(decimalHundred)))
}

// VariantCostInput carries everything the variant cost formula needs,
// already resolved: recipe per-kg figures, batch line metrics, and the
// optional packaging/label pricing.
type VariantCostInput struct {
	CostPerKg           decimal.Decimal
	TaxPerKg            decimal.Decimal
	FillInKg            decimal.Decimal
	Units               int64
	Packaging           *ItemPricing
	FrontLabel          *ItemPricing
	BackLabel           *ItemPricing
	LabelsPerUnit       int
	SellingPricePerUnit decimal.Decimal
}

type VariantCost struct {
	MaterialsCost  decimal.Decimal `json:"materials_cost"`
	PackagingCost  decimal.Decimal `json:"packaging_cost"`
	LabelsCost     decimal.Decimal `json:"labels_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	Profit         decimal.Decimal `json:"profit"`
	Margin         decimal.Decimal `json:"margin"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	RevenuePerUnit decimal.Decimal `json:"revenue_per_unit"`
}

// CalculateVariantCost prices one qualifying (units > 0) batch line.
// FillInKg is the batch-total kilograms, so the materials term is
// (costPerKg + taxPerKg) * fillInKg with no further unit multiplier.
// Missing packaging or labels contribute zero cost.
func CalculateVariantCost(input VariantCostInput) VariantCost {
	units := decimal.NewFromInt(input.Units)
	labelsPerUnit := decimal.NewFromInt(int64(input.LabelsPerUnit))

	cost := VariantCost{
		MaterialsCost: input.CostPerKg.Add(input.TaxPerKg).Mul(input.FillInKg),
	}
	if input.Packaging != nil {
		cost.PackagingCost = input.Packaging.withTax().Mul(units)
	}
	labelPerUnit := decimal.Zero
	if input.FrontLabel != nil {
		labelPerUnit = labelPerUnit.Add(input.FrontLabel.withTax())
	}
	if input.BackLabel != nil {
		labelPerUnit = labelPerUnit.Add(input.BackLabel.withTax())
	}
	cost.LabelsCost = labelPerUnit.Mul(labelsPerUnit).Mul(units)

	cost.TotalCost = cost.MaterialsCost.Add(cost.PackagingCost).Add(cost.LabelsCost)
	cost.TotalRevenue = input.SellingPricePerUnit.Mul(units)
	cost.Profit = cost.TotalRevenue.Sub(cost.TotalCost)
	if cost.TotalRevenue.GreaterThan(decimal.Zero) {
		cost.Margin = cost.Profit.Div(cost.TotalRevenue).Mul(decimalHundred)
	}
	if input.Units > 0 {
		cost.CostPerUnit = cost.TotalCost.Div(units)
		cost.RevenuePerUnit = cost.TotalRevenue.Div(units)
	}
	return cost
}

// BatchVariantCostLine is one batch line's metrics and cost breakdown.
type BatchVariantCostLine struct {
	ProductID        int                 `json:"product_id"`
	ProductVariantID int                 `json:"product_variant_id"`
	VariantName      string              `json:"variant_name"`
	Metrics          BatchVariantMetrics `json:"metrics"`
	Cost             VariantCost         `json:"cost"`
}

type BatchCostSummary struct {
	BatchID       int                     `json:"batch_id"`
	BatchName     string                  `json:"batch_name"`
	Lines         []*BatchVariantCostLine `json:"lines"`
	TotalCost     decimal.Decimal         `json:"total_cost"`
	TotalRevenue  decimal.Decimal         `json:"total_revenue"`
	TotalProfit   decimal.Decimal         `json:"total_profit"`
	OverallMargin decimal.Decimal         `json:"overall_margin"`
}

// packagingPricing loads per-piece pricing for an optional packaging
// reference. A dangling or absent reference yields nil, which the cost
// formula treats as zero cost.
func packagingPricing(ctx context.Context, id *int) *ItemPricing {
	if id == nil {
		return nil
	}
	row, err := utils.FetchModel[SupplierPackaging](ctx, *id)
	if err != nil {
		return nil
	}
	return &ItemPricing{UnitPrice: row.CostPerUnit}
}

func labelPricing(ctx context.Context, id *int) *ItemPricing {
	if id == nil {
		return nil
	}
	row, err := utils.FetchModel[SupplierLabel](ctx, *id)
	if err != nil {
		return nil
	}
	return &ItemPricing{UnitPrice: row.CostPerUnit}
}

// GetProductionBatchCosts computes the full cost picture of a batch:
// per-line metrics and costs plus batch totals. Lines producing zero units
// are excluded.
func GetProductionBatchCosts(ctx context.Context, batchId int) (*BatchCostSummary, error) {
	batch, err := GetProductionBatch(ctx, batchId)
	if err != nil {
		return nil, err
	}

	summary := BatchCostSummary{BatchID: batch.ID, BatchName: batch.BatchName, Lines: []*BatchVariantCostLine{}}

	for _, item := range batch.Items {
		product, err := GetProduct(ctx, item.ProductID)
		if err != nil {
			continue
		}
		formulation, err := ResolveFormulation(ctx, product)
		if err != nil {
			continue
		}
		prices, err := PriceLookupForIngredients(ctx, formulation.Ingredients)
		if err != nil {
			return nil, err
		}
		recipeCost := CalculateRecipeTotals(formulation.Ingredients, prices, formulation.Recipe.TargetCostPerKg)
		taxPerKg := recipeCost.TaxedCostPerKg.Sub(recipeCost.CostPerKg)

		for _, line := range item.Variants {
			variant, err := GetProductVariant(ctx, line.ProductVariantID)
			if err != nil {
				continue
			}
			metrics := CalculateVariantMetrics(variant.FillQuantity, variant.FillUnit, line.TotalFillQuantity, line.FillUnit)
			if metrics.Units == 0 {
				continue
			}

			cost := CalculateVariantCost(VariantCostInput{
				CostPerKg:           recipeCost.CostPerKg,
				TaxPerKg:            taxPerKg,
				FillInKg:            metrics.FillInKg,
				Units:               metrics.Units,
				Packaging:           packagingPricing(ctx, variant.SupplierPackagingID),
				FrontLabel:          labelPricing(ctx, variant.FrontLabelID),
				BackLabel:           labelPricing(ctx, variant.BackLabelID),
				LabelsPerUnit:       variant.LabelsPerUnit,
				SellingPricePerUnit: variant.SellingPricePerUnit,
			})

			summary.Lines = append(summary.Lines, &BatchVariantCostLine{
				ProductID:        item.ProductID,
				ProductVariantID: variant.ID,
				VariantName:      variant.Name,
				Metrics:          metrics,
				Cost:             cost,
			})
			summary.TotalCost = summary.TotalCost.Add(cost.TotalCost)
			summary.TotalRevenue = summary.TotalRevenue.Add(cost.TotalRevenue)
		}
	}

	summary.TotalProfit = summary.TotalRevenue.Sub(summary.TotalCost)
	if summary.TotalRevenue.GreaterThan(decimal.Zero) {
		summary.OverallMargin = summary.TotalProfit.Div(summary.TotalRevenue).Mul(decimalHundred)
	}
	return &summary, nil
}
