package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/mfgops_backend/models"
)

func CreateRecipe(c *gin.Context) {
	var input models.NewRecipe
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	recipe, err := models.CreateRecipe(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func UpdateRecipe(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewRecipe
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	recipe, err := models.UpdateRecipe(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func DeleteRecipe(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	recipe, err := models.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func GetRecipe(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	recipe, err := models.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func GetRecipes(c *gin.Context) {
	var status *models.RecipeStatus
	if raw := c.Query("status"); raw != "" {
		s := models.RecipeStatus(raw)
		status = &s
	}
	recipes, err := models.GetRecipes(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func GetRecipeCost(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	summary, err := models.GetRecipeCost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type lockPricingInput struct {
	Reason string `json:"reason"`
}

func LockIngredientPricing(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input lockPricingInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		respondError(c, err)
		return
	}
	ingredient, err := models.LockIngredientPricing(c.Request.Context(), id, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func UnlockIngredientPricing(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	ingredient, err := models.UnlockIngredientPricing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func CreateRecipeVariant(c *gin.Context) {
	var input models.NewRecipeVariant
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	variant, err := models.CreateRecipeVariant(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, variant)
}

func DeleteRecipeVariant(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	variant, err := models.DeleteRecipeVariant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func GetRecipeVariant(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	variant, err := models.GetRecipeVariant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func GetRecipeVariants(c *gin.Context) {
	variants, err := models.GetRecipeVariants(c.Request.Context(), queryInt(c, "recipe_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, variants)
}

func GetRecipeVariantCost(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	comparison, err := models.GetRecipeVariantCost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}
