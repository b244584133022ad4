package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func CreatePurchaseOrder(c *gin.Context) {
	var input models.NewPurchaseOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	order, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func UpdatePurchaseOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewPurchaseOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	order, err := models.UpdatePurchaseOrder(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type purchaseOrderStatusInput struct {
	Status models.PurchaseOrderStatus `json:"status" binding:"required"`
}

func UpdatePurchaseOrderStatus(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input purchaseOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	order, err := models.UpdatePurchaseOrderStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ReceivePurchaseOrderItems(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.ReceiveItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	order, err := models.ReceivePurchaseOrderItems(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func DeletePurchaseOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	order, err := models.DeletePurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func GetPurchaseOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	order, err := models.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func GetPurchaseOrders(c *gin.Context) {
	var status *models.PurchaseOrderStatus
	if raw := c.Query("status"); raw != "" {
		s := models.PurchaseOrderStatus(raw)
		status = &s
	}
	orders, err := models.GetPurchaseOrders(c.Request.Context(), status, queryInt(c, "supplier_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
