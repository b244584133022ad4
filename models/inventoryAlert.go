package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

type InventoryAlert struct {
	ID              int             `gorm:"primary_key" json:"id"`
	InventoryItemID int             `gorm:"index;not null" json:"inventory_item_id"`
	AlertType       InventoryStatus `gorm:"size:20;not null" json:"alert_type"`
	Severity        AlertSeverity   `gorm:"size:20;not null" json:"severity"`
	Message         string          `gorm:"size:500;not null" json:"message"`
	IsRead          *bool           `gorm:"not null;default:false" json:"is_read"`
	IsResolved      *bool           `gorm:"not null;default:false" json:"is_resolved"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

var alertSeverityForStatus = map[InventoryStatus]AlertSeverity{
	InventoryStatusOutOfStock: AlertSeverityCritical,
	InventoryStatusLowStock:   AlertSeverityWarning,
	InventoryStatusOverstock:  AlertSeverityInfo,
}

// syncAlertsForStatus enforces the at-most-one-unresolved-alert invariant
// inside the caller's transaction: any outstanding alert for the item is
// resolved first, then a single new alert is created when the status
// warrants one. An in-stock status only resolves.
func syncAlertsForStatus(tx *gorm.DB, item *InventoryItem) error {
	if err := tx.Model(&InventoryAlert{}).
		Where("inventory_item_id = ? AND is_resolved = ?", item.ID, false).
		Update("is_resolved", true).Error; err != nil {
		return err
	}

	severity, ok := alertSeverityForStatus[item.Status]
	if !ok {
		return nil
	}
	alert := InventoryAlert{
		InventoryItemID: item.ID,
		AlertType:       item.Status,
		Severity:        severity,
		Message: fmt.Sprintf("%s %d is %s (stock %s, min %s)",
			item.ItemType, item.ItemID, item.Status,
			item.CurrentStock.StringFixed(2), item.MinStockLevel.StringFixed(2)),
		IsRead:     utils.NewFalse(),
		IsResolved: utils.NewFalse(),
	}
	return tx.Create(&alert).Error
}

func GetInventoryAlerts(ctx context.Context, unresolvedOnly bool) ([]*InventoryAlert, error) {
	db := config.GetDB()
	var results []*InventoryAlert

	dbCtx := db.WithContext(ctx)
	if unresolvedOnly {
		dbCtx = dbCtx.Where("is_resolved = ?", false)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func MarkAlertRead(ctx context.Context, id int) (*InventoryAlert, error) {
	db := config.GetDB()

	alert, err := utils.FetchModel[InventoryAlert](ctx, id)
	if err != nil {
		return nil, err
	}
	alert.IsRead = utils.NewTrue()
	if err := db.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func ResolveAlert(ctx context.Context, id int) (*InventoryAlert, error) {
	db := config.GetDB()

	alert, err := utils.FetchModel[InventoryAlert](ctx, id)
	if err != nil {
		return nil, err
	}
	alert.IsResolved = utils.NewTrue()
	if err := db.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}
