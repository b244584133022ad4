package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// InventoryTransaction is an immutable ledger entry. Every stock mutation
// appends exactly one; the latest entry's StockAfter always equals the
// item's CurrentStock.
type InventoryTransaction struct {
	ID              int                      `gorm:"primary_key" json:"id"`
	InventoryItemID int                      `gorm:"index;not null" json:"inventory_item_id"`
	Type            InventoryTransactionType `gorm:"size:20;not null" json:"type"`
	Quantity        decimal.Decimal          `gorm:"type:decimal(20,6);not null" json:"quantity"`
	Reason          string                   `gorm:"size:255;default:null" json:"reason"`
	Reference       string                   `gorm:"size:64;default:null" json:"reference"`
	StockBefore     decimal.Decimal          `gorm:"type:decimal(20,6);not null" json:"stock_before"`
	StockAfter      decimal.Decimal          `gorm:"type:decimal(20,6);not null" json:"stock_after"`
	CreatedAt       time.Time                `gorm:"autoCreateTime" json:"created_at"`
}

type NewInventoryTransaction struct {
	Type     string          `json:"type" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Reason   string          `json:"reason"`
}

// ApplyInventoryTransaction mutates an item's stock through the ledger:
// "In" adds, "Out" subtracts (rejected if it would go negative),
// "Adjustment" sets the absolute level. The ledger append, the stock write,
// the status recompute, and the alert supersession happen in one DB
// transaction, serialized per item by a Redis lock when one is available.
func ApplyInventoryTransaction(ctx context.Context, itemId int, input *NewInventoryTransaction) (*InventoryTransaction, error) {
	db := config.GetDB()

	var txType InventoryTransactionType
	if err := txType.Parse(input.Type); err != nil {
		return nil, err
	}
	if input.Quantity.LessThan(decimal.Zero) {
		return nil, errors.New("quantity cannot be negative")
	}

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, fmt.Sprintf("InventoryItem:%d", itemId), 10*time.Second, nil)
		if err != nil {
			return nil, errors.New("inventory item is locked by another operation")
		}
		defer lock.Release(ctx)
	}

	item, err := utils.FetchModel[InventoryItem](ctx, itemId)
	if err != nil {
		return nil, err
	}

	stockBefore := item.CurrentStock
	var stockAfter decimal.Decimal
	switch txType {
	case TransactionTypeIn:
		stockAfter = stockBefore.Add(input.Quantity)
	case TransactionTypeOut:
		stockAfter = stockBefore.Sub(input.Quantity)
		if stockAfter.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("insufficient stock: %s on hand, %s requested",
				stockBefore.StringFixed(2), input.Quantity.StringFixed(2))
		}
	case TransactionTypeAdjustment:
		stockAfter = input.Quantity
	}

	entry := InventoryTransaction{
		InventoryItemID: itemId,
		Type:            txType,
		Quantity:        input.Quantity,
		Reason:          input.Reason,
		Reference:       uuid.NewString(),
		StockBefore:     stockBefore,
		StockAfter:      stockAfter,
	}

	item.CurrentStock = stockAfter
	item.Status = ClassifyInventoryStatus(stockAfter, item.MinStockLevel, item.MaxStockLevel)

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return syncAlertsForStatus(tx, item)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func GetInventoryTransactions(ctx context.Context, itemId int) ([]*InventoryTransaction, error) {
	db := config.GetDB()
	var results []*InventoryTransaction
	if err := db.WithContext(ctx).Where("inventory_item_id = ?", itemId).
		Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
