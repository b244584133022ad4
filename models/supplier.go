package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

type Supplier struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Email         string    `gorm:"size:255;default:null" json:"email"`
	Phone         string    `gorm:"size:50;default:null" json:"phone"`
	Address       string    `gorm:"type:text;default:null" json:"address"`
	ContactPerson string    `gorm:"size:255;default:null" json:"contact_person"`
	Notes         string    `gorm:"type:text;default:null" json:"notes"`
	IsActive      *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	Notes         string `json:"notes"`
	IsActive      *bool  `json:"is_active"`
}

func (input NewSupplier) validate(ctx context.Context, exceptId int) error {
	if err := utils.ValidateUnique[Supplier](ctx, "name", input.Name, exceptId); err != nil {
		return errors.New("supplier with this name already exists")
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	supplier := Supplier{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		ContactPerson: input.ContactPerson,
		Notes:         input.Notes,
		IsActive:      isActive,
	}

	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.Name = input.Name
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	supplier.ContactPerson = input.ContactPerson
	supplier.Notes = input.Notes
	if input.IsActive != nil {
		supplier.IsActive = input.IsActive
	}

	if err := db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {
	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateNotReferenced[SupplierMaterial](ctx, "supplier_id", id,
		"cannot delete supplier that still carries materials"); err != nil {
		return nil, err
	}
	if err := utils.ValidateNotReferenced[SupplierPackaging](ctx, "supplier_id", id,
		"cannot delete supplier that still carries packaging"); err != nil {
		return nil, err
	}
	if err := utils.ValidateNotReferenced[SupplierLabel](ctx, "supplier_id", id,
		"cannot delete supplier that still carries labels"); err != nil {
		return nil, err
	}
	if err := utils.ValidateNotReferenced[PurchaseOrder](ctx, "supplier_id", id,
		"cannot delete supplier with purchase orders"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func GetSuppliers(ctx context.Context, name *string) ([]*Supplier, error) {
	db := config.GetDB()
	var results []*Supplier

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
