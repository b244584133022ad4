package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func CreateCategory(c *gin.Context) {
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	category, err := models.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	category, err := models.UpdateCategory(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	category, err := models.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func GetCategories(c *gin.Context) {
	categories, err := models.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func CreateMaterial(c *gin.Context) {
	var input models.NewMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	material, err := models.CreateMaterial(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

func UpdateMaterial(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	material, err := models.UpdateMaterial(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func DeleteMaterial(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	material, err := models.DeleteMaterial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func GetMaterial(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	material, err := models.GetMaterial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func GetMaterials(c *gin.Context) {
	materials, err := models.GetMaterials(c.Request.Context(), queryInt(c, "category_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

func CompareMaterialPrices(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	quotes, err := models.CompareMaterialPrices(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

func CreateSupplierMaterial(c *gin.Context) {
	var input models.NewSupplierMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	row, err := models.CreateSupplierMaterial(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func UpdateSupplierMaterial(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSupplierMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	row, err := models.UpdateSupplierMaterial(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func DeleteSupplierMaterial(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	row, err := models.DeleteSupplierMaterial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func GetSupplierMaterials(c *gin.Context) {
	rows, err := models.GetSupplierMaterials(c.Request.Context(),
		queryInt(c, "supplier_id"), queryInt(c, "material_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func CreatePackaging(c *gin.Context) {
	var input models.NewPackaging
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	packaging, err := models.CreatePackaging(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, packaging)
}

func UpdatePackaging(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewPackaging
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	packaging, err := models.UpdatePackaging(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packaging)
}

func DeletePackaging(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	packaging, err := models.DeletePackaging(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packaging)
}

func GetPackagings(c *gin.Context) {
	packagings, err := models.GetPackagings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packagings)
}

func CreateSupplierPackaging(c *gin.Context) {
	var input models.NewSupplierPackaging
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	row, err := models.CreateSupplierPackaging(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func UpdateSupplierPackaging(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSupplierPackaging
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	row, err := models.UpdateSupplierPackaging(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func DeleteSupplierPackaging(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	row, err := models.DeleteSupplierPackaging(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func GetSupplierPackagings(c *gin.Context) {
	rows, err := models.GetSupplierPackagings(c.Request.Context(), queryInt(c, "supplier_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func CreateLabel(c *gin.Context) {
	var input models.NewLabel
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	label, err := models.CreateLabel(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, label)
}

func UpdateLabel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewLabel
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	label, err := models.UpdateLabel(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func DeleteLabel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	label, err := models.DeleteLabel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func GetLabels(c *gin.Context) {
	labels, err := models.GetLabels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

func CreateSupplierLabel(c *gin.Context) {
	var input models.NewSupplierLabel
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	row, err := models.CreateSupplierLabel(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func UpdateSupplierLabel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSupplierLabel
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	row, err := models.UpdateSupplierLabel(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func DeleteSupplierLabel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	row, err := models.DeleteSupplierLabel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func GetSupplierLabels(c *gin.Context) {
	rows, err := models.GetSupplierLabels(c.Request.Context(), queryInt(c, "supplier_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
