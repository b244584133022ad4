package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

type PurchaseOrder struct {
	ID           int                  `gorm:"primary_key" json:"id"`
	OrderNumber  string               `gorm:"size:50;unique;not null" json:"order_number"`
	SupplierID   int                  `gorm:"index;not null" json:"supplier_id" binding:"required"`
	Supplier     *Supplier            `json:"supplier,omitempty"`
	Status       PurchaseOrderStatus  `gorm:"size:30;not null;default:'Draft'" json:"status"`
	Items        []*PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
	TotalCost    decimal.Decimal      `gorm:"type:decimal(20,6);not null;default:0" json:"total_cost"`
	ExpectedDate *time.Time           `gorm:"default:null" json:"expected_date"`
	Notes        string               `gorm:"type:text;default:null" json:"notes"`
	CreatedAt    time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderItem struct {
	ID               int               `gorm:"primary_key" json:"id"`
	PurchaseOrderID  int               `gorm:"index;not null" json:"purchase_order_id"`
	ItemType         InventoryItemType `gorm:"size:30;not null" json:"item_type"`
	ItemID           int               `gorm:"not null" json:"item_id"`
	Quantity         decimal.Decimal   `gorm:"type:decimal(20,6);not null" json:"quantity"`
	QuantityReceived decimal.Decimal   `gorm:"type:decimal(20,6);not null;default:0" json:"quantity_received"`
	UnitPrice        decimal.Decimal   `gorm:"type:decimal(20,6);not null" json:"unit_price"`
	Tax              decimal.Decimal   `gorm:"type:decimal(20,6);not null;default:0" json:"tax"`
	TotalCost        decimal.Decimal   `gorm:"type:decimal(20,6);not null" json:"total_cost"`
}

type NewPurchaseOrderItem struct {
	ItemType  string          `json:"item_type" binding:"required"`
	ItemID    int             `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Tax       decimal.Decimal `json:"tax"`
}

type NewPurchaseOrder struct {
	SupplierID   int                    `json:"supplier_id" binding:"required"`
	Items        []NewPurchaseOrderItem `json:"items" binding:"required"`
	ExpectedDate *time.Time             `json:"expected_date"`
	Notes        string                 `json:"notes"`
}

func (input NewPurchaseOrder) validate(ctx context.Context) ([]*PurchaseOrderItem, error) {
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierID); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, errors.New("purchase order needs at least one line")
	}

	items := make([]*PurchaseOrderItem, 0, len(input.Items))
	for i, line := range input.Items {
		var itemType InventoryItemType
		if err := itemType.Parse(line.ItemType); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("line %d: quantity must be positive", i+1)
		}
		if line.UnitPrice.LessThan(decimal.Zero) || line.Tax.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("line %d: prices cannot be negative", i+1)
		}

		var err error
		switch itemType {
		case ItemTypeSupplierMaterial:
			err = utils.ValidateResourceId[SupplierMaterial](ctx, line.ItemID)
		case ItemTypeSupplierPackaging:
			err = utils.ValidateResourceId[SupplierPackaging](ctx, line.ItemID)
		case ItemTypeSupplierLabel:
			err = utils.ValidateResourceId[SupplierLabel](ctx, line.ItemID)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		lineCost := line.UnitPrice.Mul(line.Quantity).
			Mul(decimal.NewFromInt(1).Add(line.Tax.Div(decimalHundred)))
		items = append(items, &PurchaseOrderItem{
			ItemType:  itemType,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Tax:       line.Tax,
			TotalCost: lineCost,
		})
	}
	return items, nil
}

func orderTotal(items []*PurchaseOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalCost)
	}
	return total
}

func nextOrderNumber(ctx context.Context) (string, error) {
	db := config.GetDB()
	prefix := fmt.Sprintf("PO-%s-", time.Now().Format("200601"))

	var latest sql.NullString
	if err := db.WithContext(ctx).Model(&PurchaseOrder{}).
		Where("order_number LIKE ?", prefix+"%").
		Select("MAX(order_number)").
		Scan(&latest).Error; err != nil {
		return "", err
	}
	return nextInSequence(prefix, latest.String), nil
}

// nextInSequence increments the numeric suffix of the month's highest
// surviving order number. Deleting a draft never frees a number below the
// maximum, so a fresh number cannot collide with an existing row.
func nextInSequence(prefix, latest string) string {
	seq := 1
	if strings.HasPrefix(latest, prefix) {
		if n, err := strconv.Atoi(latest[len(prefix):]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq)
}

func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	db := config.GetDB()

	items, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}
	orderNumber, err := nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := PurchaseOrder{
		OrderNumber:  orderNumber,
		SupplierID:   input.SupplierID,
		Status:       PurchaseOrderStatusDraft,
		TotalCost:    orderTotal(items),
		ExpectedDate: input.ExpectedDate,
		Notes:        input.Notes,
	}

	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, item := range items {
		item.PurchaseOrderID = order.ID
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.Items = items
	return &order, nil
}

// UpdatePurchaseOrder rewrites a draft order. Once submitted, only status
// moves and receiving are allowed.
func UpdatePurchaseOrder(ctx context.Context, id int, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	db := config.GetDB()

	order, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != PurchaseOrderStatusDraft {
		return nil, fmt.Errorf("cannot edit a %s purchase order", order.Status)
	}

	items, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	order.SupplierID = input.SupplierID
	order.TotalCost = orderTotal(items)
	order.ExpectedDate = input.ExpectedDate
	order.Notes = input.Notes

	tx := db.WithContext(ctx).Begin()
	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("purchase_order_id = ?", id).Delete(&PurchaseOrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, item := range items {
		item.PurchaseOrderID = id
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.Items = items
	return order, nil
}

func UpdatePurchaseOrderStatus(ctx context.Context, id int, next PurchaseOrderStatus) (*PurchaseOrder, error) {
	db := config.GetDB()

	order, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("cannot move purchase order from %s to %s", order.Status, next)
	}

	order.Status = next
	if err := db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

type ReceiveItemsInput struct {
	Receipts []ReceiptLine `json:"receipts" binding:"required"`
}

type ReceiptLine struct {
	PurchaseOrderItemID int             `json:"purchase_order_item_id" binding:"required"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceivePurchaseOrderItems books received quantities against order lines.
// When every line is fully received the order moves to Delivered, otherwise
// to PartiallyDelivered. Each received line backed by a tracked inventory
// item also gets an "In" ledger transaction, which recomputes that item's
// status and alerts.
func ReceivePurchaseOrderItems(ctx context.Context, id int, input *ReceiveItemsInput) (*PurchaseOrder, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	order, err := GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case PurchaseOrderStatusInTransit, PurchaseOrderStatusPartiallyDelivered:
	default:
		return nil, fmt.Errorf("cannot receive items on a %s purchase order", order.Status)
	}
	if len(input.Receipts) == 0 {
		return nil, errors.New("nothing to receive")
	}

	linesById := make(map[int]*PurchaseOrderItem, len(order.Items))
	for _, line := range order.Items {
		linesById[line.ID] = line
	}

	received := make(map[int]decimal.Decimal, len(input.Receipts))
	for i, receipt := range input.Receipts {
		line, ok := linesById[receipt.PurchaseOrderItemID]
		if !ok {
			return nil, fmt.Errorf("receipt %d: line %d is not part of this order", i+1, receipt.PurchaseOrderItemID)
		}
		if receipt.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("receipt %d: quantity must be positive", i+1)
		}
		received[line.ID] = received[line.ID].Add(receipt.Quantity)
	}

	tx := db.WithContext(ctx).Begin()
	allDelivered := true
	for _, line := range order.Items {
		if quantity, ok := received[line.ID]; ok {
			line.QuantityReceived = line.QuantityReceived.Add(quantity)
			if err := tx.Save(line).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
		if line.QuantityReceived.LessThan(line.Quantity) {
			allDelivered = false
		}
	}

	if allDelivered {
		order.Status = PurchaseOrderStatusDelivered
	} else {
		order.Status = PurchaseOrderStatusPartiallyDelivered
	}
	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// Stock in the received quantities for tracked items. The order itself
	// is already booked; a failed stock write is surfaced in the log, not
	// rolled back.
	for _, line := range order.Items {
		quantity, ok := received[line.ID]
		if !ok {
			continue
		}
		count, err := utils.ResourceCountWhere[InventoryItem](ctx,
			"item_type = ? AND item_id = ?", line.ItemType, line.ItemID)
		if err != nil || count == 0 {
			continue
		}
		var item InventoryItem
		if err := db.WithContext(ctx).
			Where("item_type = ? AND item_id = ?", line.ItemType, line.ItemID).
			First(&item).Error; err != nil {
			continue
		}
		if _, err := ApplyInventoryTransaction(ctx, item.ID, &NewInventoryTransaction{
			Type:     string(TransactionTypeIn),
			Quantity: quantity,
			Reason:   fmt.Sprintf("received on %s", order.OrderNumber),
		}); err != nil {
			logger.WithFields(logrus.Fields{
				"purchaseOrderId": order.ID,
				"inventoryItemId": item.ID,
			}).Warn("failed to book received stock: ", err)
		}
	}
	return order, nil
}

func DeletePurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	order, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != PurchaseOrderStatusDraft && order.Status != PurchaseOrderStatusCancelled {
		return nil, fmt.Errorf("cannot delete a %s purchase order", order.Status)
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Where("purchase_order_id = ?", id).Delete(&PurchaseOrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	return utils.FetchModel[PurchaseOrder](ctx, id, "Supplier", "Items")
}

func GetPurchaseOrders(ctx context.Context, status *PurchaseOrderStatus, supplierId *int) ([]*PurchaseOrder, error) {
	db := config.GetDB()
	var results []*PurchaseOrder

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Items")
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
