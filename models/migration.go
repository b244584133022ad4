package models

import (
	"bitbucket.org/mmdatafocus/mfgops_backend/config"
)

func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&User{},
		&Supplier{},
		&Category{},
		&Material{},
		&SupplierMaterial{},
		&Packaging{},
		&SupplierPackaging{},
		&Label{},
		&SupplierLabel{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeVariant{},
		&RecipeVariantIngredient{},
		&RecipeVariantChange{},
		&Product{},
		&ProductVariant{},
		&ProductionBatch{},
		&ProductionBatchItem{},
		&ProductionBatchVariant{},
		&InventoryItem{},
		&InventoryTransaction{},
		&InventoryAlert{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
	)
}
