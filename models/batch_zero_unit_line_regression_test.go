package models_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func TestProductionBatchOutputs_ExcludeZeroUnitLines(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "mfgops_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := models.MigrateTable(); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Botanica Supply"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	material, err := models.CreateMaterial(ctx, &models.NewMaterial{Name: "Coconut Oil"})
	if err != nil {
		t.Fatalf("CreateMaterial: %v", err)
	}
	// 1 kg pack at 100 makes the per-kg cost exactly 100.
	offering, err := models.CreateSupplierMaterial(ctx, &models.NewSupplierMaterial{
		SupplierID:   supplier.ID,
		MaterialID:   material.ID,
		BulkQuantity: decimal.NewFromInt(1),
		BulkUnit:     "kg",
		BulkPrice:    decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("CreateSupplierMaterial: %v", err)
	}

	recipe, err := models.CreateRecipe(ctx, &models.NewRecipe{
		Name: "Body Butter",
		Ingredients: []models.NewRecipeIngredient{
			{SupplierMaterialID: offering.ID, Quantity: decimal.NewFromInt(1000), Unit: "gm"},
		},
	})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:     "Body Butter Jar",
		RecipeID: recipe.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	short, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductID:    product.ID,
		Name:         "Jar 1kg short run",
		FillQuantity: decimal.NewFromInt(1000),
		FillUnit:     "gm",
	})
	if err != nil {
		t.Fatalf("CreateProductVariant(short): %v", err)
	}
	full, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductID:    product.ID,
		Name:         "Jar 1kg",
		FillQuantity: decimal.NewFromInt(1000),
		FillUnit:     "gm",
	})
	if err != nil {
		t.Fatalf("CreateProductVariant(full): %v", err)
	}

	// 0.999 kg against a 1000 gm fill floors to zero units; that line must
	// not surface anywhere in costs or requirements. The 5 kg line yields 5.
	batch, err := models.CreateProductionBatch(ctx, &models.NewProductionBatch{
		BatchName: "Autumn Run 1",
		Items: []models.NewBatchItem{
			{
				ProductID: product.ID,
				Variants: []models.NewBatchVariant{
					{ProductVariantID: short.ID, TotalFillQuantity: decimal.RequireFromString("0.999"), FillUnit: "kg"},
					{ProductVariantID: full.ID, TotalFillQuantity: decimal.NewFromInt(5), FillUnit: "kg"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateProductionBatch: %v", err)
	}

	requirements, err := models.GetProductionBatchRequirements(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetProductionBatchRequirements: %v", err)
	}
	if len(requirements.Materials) != 1 {
		t.Fatalf("expected one merged material requirement; got %d", len(requirements.Materials))
	}
	need := requirements.Materials[0]
	if !need.Quantity.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected 5 kg required (zero-unit line excluded); got %s", need.Quantity)
	}
	if !need.TotalCost.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected requirement cost 500; got %s", need.TotalCost)
	}
	if requirements.Overview.TotalItems != 1 {
		t.Fatalf("expected overview TotalItems=1; got %d", requirements.Overview.TotalItems)
	}
	for _, group := range requirements.ByProduct {
		for _, raw := range group.Requirements {
			if raw.ProductVariantID == short.ID {
				t.Fatalf("zero-unit line leaked into by-product requirements: %+v", raw)
			}
		}
	}

	costs, err := models.GetProductionBatchCosts(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetProductionBatchCosts: %v", err)
	}
	if len(costs.Lines) != 1 {
		t.Fatalf("expected one cost line; got %d", len(costs.Lines))
	}
	line := costs.Lines[0]
	if line.ProductVariantID != full.ID {
		t.Fatalf("expected cost line for the 5 kg variant; got variant %d", line.ProductVariantID)
	}
	if line.Metrics.Units != 5 {
		t.Fatalf("expected 5 units; got %d", line.Metrics.Units)
	}
	if !line.Cost.MaterialsCost.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected materials cost 500; got %s", line.Cost.MaterialsCost)
	}
}
