package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func CreateProductionBatch(c *gin.Context) {
	var input models.NewProductionBatch
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	batch, err := models.CreateProductionBatch(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

func UpdateProductionBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewProductionBatch
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	batch, err := models.UpdateProductionBatch(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

type batchStatusInput struct {
	Status models.BatchStatus `json:"status" binding:"required"`
}

func UpdateProductionBatchStatus(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input batchStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	batch, err := models.UpdateProductionBatchStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func DeleteProductionBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	batch, err := models.DeleteProductionBatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func GetProductionBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	batch, err := models.GetProductionBatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func GetProductionBatches(c *gin.Context) {
	var status *models.BatchStatus
	if raw := c.Query("status"); raw != "" {
		s := models.BatchStatus(raw)
		status = &s
	}
	batches, err := models.GetProductionBatches(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batches)
}

func GetProductionBatchCosts(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	summary, err := models.GetProductionBatchCosts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func GetProductionBatchRequirements(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	requirements, err := models.GetProductionBatchRequirements(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requirements)
}
