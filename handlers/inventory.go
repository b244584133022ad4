package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func CreateInventoryItem(c *gin.Context) {
	var input models.NewInventoryItem
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	item, err := models.CreateInventoryItem(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type inventoryThresholdsInput struct {
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level"`
}

func UpdateInventoryItem(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input inventoryThresholdsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	item, err := models.UpdateInventoryItem(c.Request.Context(), id, input.MinStockLevel, input.MaxStockLevel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func DeleteInventoryItem(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	item, err := models.DeleteInventoryItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func GetInventoryItem(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	item, err := models.GetInventoryItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func GetInventoryOverview(c *gin.Context) {
	items, err := models.GetInventoryOverview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func ApplyInventoryTransaction(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewInventoryTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	entry, err := models.ApplyInventoryTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func GetInventoryTransactions(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	entries, err := models.GetInventoryTransactions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func GetInventoryAlerts(c *gin.Context) {
	unresolvedOnly := c.Query("unresolved") == "true"
	alerts, err := models.GetInventoryAlerts(c.Request.Context(), unresolvedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func MarkAlertRead(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	alert, err := models.MarkAlertRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func ResolveAlert(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	alert, err := models.ResolveAlert(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}
