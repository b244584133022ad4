package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// Label is a printed label design applied to a finished unit.
type Label struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	LabelType string    `gorm:"size:100;default:null" json:"label_type"`
	Size      string    `gorm:"size:100;default:null" json:"size"`
	Notes     string    `gorm:"type:text;default:null" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewLabel struct {
	Name      string `json:"name" binding:"required"`
	LabelType string `json:"label_type"`
	Size      string `json:"size"`
	Notes     string `json:"notes"`
}

func (input NewLabel) validate(ctx context.Context, exceptId int) error {
	if err := utils.ValidateUnique[Label](ctx, "name", input.Name, exceptId); err != nil {
		return errors.New("label with this name already exists")
	}
	return nil
}

func CreateLabel(ctx context.Context, input *NewLabel) (*Label, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	label := Label{
		Name:      input.Name,
		LabelType: input.LabelType,
		Size:      input.Size,
		Notes:     input.Notes,
	}
	if err := db.WithContext(ctx).Create(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func UpdateLabel(ctx context.Context, id int, input *NewLabel) (*Label, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	label, err := utils.FetchModel[Label](ctx, id)
	if err != nil {
		return nil, err
	}

	label.Name = input.Name
	label.LabelType = input.LabelType
	label.Size = input.Size
	label.Notes = input.Notes
	if err := db.WithContext(ctx).Save(label).Error; err != nil {
		return nil, err
	}
	return label, nil
}

func DeleteLabel(ctx context.Context, id int) (*Label, error) {
	label, err := utils.FetchModel[Label](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[SupplierLabel](ctx, "label_id", id,
		"cannot delete label that suppliers still carry"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(label).Error; err != nil {
		return nil, err
	}
	return label, nil
}

func GetLabel(ctx context.Context, id int) (*Label, error) {
	return utils.FetchModel[Label](ctx, id)
}

func GetLabels(ctx context.Context) ([]*Label, error) {
	return utils.FetchAllModels[Label](ctx)
}

// SupplierLabel is a supplier's offering of a label, priced per piece.
type SupplierLabel struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SupplierID   int             `gorm:"index;not null" json:"supplier_id" binding:"required"`
	Supplier     *Supplier       `json:"supplier,omitempty"`
	LabelID      int             `gorm:"index;not null" json:"label_id" binding:"required"`
	Label        *Label          `json:"label,omitempty"`
	BulkQuantity int             `gorm:"not null" json:"bulk_quantity"`
	BulkPrice    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"bulk_price"`
	CostPerUnit  decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"cost_per_unit"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplierLabel struct {
	SupplierID   int             `json:"supplier_id" binding:"required"`
	LabelID      int             `json:"label_id" binding:"required"`
	BulkQuantity int             `json:"bulk_quantity" binding:"required"`
	BulkPrice    decimal.Decimal `json:"bulk_price" binding:"required"`
}

func (input NewSupplierLabel) validate(ctx context.Context, exceptId int) error {
	if input.BulkQuantity <= 0 {
		return errors.New("bulk quantity must be positive")
	}
	if input.BulkPrice.LessThan(decimal.Zero) {
		return errors.New("price cannot be negative")
	}
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierID); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Label](ctx, input.LabelID); err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[SupplierLabel](ctx,
		"supplier_id = ? AND label_id = ? AND id != ?",
		input.SupplierID, input.LabelID, exceptId)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("this supplier already carries this label")
	}
	return nil
}

func CreateSupplierLabel(ctx context.Context, input *NewSupplierLabel) (*SupplierLabel, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	supplierLabel := SupplierLabel{
		SupplierID:   input.SupplierID,
		LabelID:      input.LabelID,
		BulkQuantity: input.BulkQuantity,
		BulkPrice:    input.BulkPrice,
		CostPerUnit:  perUnitCost(input.BulkPrice, input.BulkQuantity),
	}
	if err := db.WithContext(ctx).Create(&supplierLabel).Error; err != nil {
		return nil, err
	}
	return &supplierLabel, nil
}

func UpdateSupplierLabel(ctx context.Context, id int, input *NewSupplierLabel) (*SupplierLabel, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	supplierLabel, err := utils.FetchModel[SupplierLabel](ctx, id)
	if err != nil {
		return nil, err
	}

	supplierLabel.SupplierID = input.SupplierID
	supplierLabel.LabelID = input.LabelID
	supplierLabel.BulkQuantity = input.BulkQuantity
	supplierLabel.BulkPrice = input.BulkPrice
	supplierLabel.CostPerUnit = perUnitCost(input.BulkPrice, input.BulkQuantity)
	if err := db.WithContext(ctx).Save(supplierLabel).Error; err != nil {
		return nil, err
	}
	return supplierLabel, nil
}

func DeleteSupplierLabel(ctx context.Context, id int) (*SupplierLabel, error) {
	supplierLabel, err := utils.FetchModel[SupplierLabel](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[ProductVariant](ctx,
		"front_label_id = ? OR back_label_id = ?", id, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete label that product variants still use")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(supplierLabel).Error; err != nil {
		return nil, err
	}
	return supplierLabel, nil
}

func GetSupplierLabel(ctx context.Context, id int) (*SupplierLabel, error) {
	return utils.FetchModel[SupplierLabel](ctx, id, "Supplier", "Label")
}

func GetSupplierLabels(ctx context.Context, supplierId *int) ([]*SupplierLabel, error) {
	db := config.GetDB()
	var results []*SupplierLabel

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Label")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
