package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
)

// CategoryController serves the category reference data
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories handles GET /categories?travelStyle=&context=
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	var req dto.CategoryFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	categories, err := c.categoryService.ListCategories(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, categories, "")
}

// GetCategory handles GET /categories/:id
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Category")
	if !ok {
		return
	}

	category, err := c.categoryService.GetCategory(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, category, "")
}
