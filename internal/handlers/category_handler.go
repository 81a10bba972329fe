package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/repositories"
)

// CategoryHandler serves the browsable category list.
type CategoryHandler struct {
	categoryRepository repositories.CategoryRepository
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryRepo repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepository: categoryRepo}
}

// RegisterCategoryRoutes registers the category routes.
func (h *CategoryHandler) RegisterCategoryRoutes(g *echo.Group) {
	g.GET("", h.ListCategories)
}

// ListCategories returns all categories sorted by name.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryRepository.ListCategories(c.Request().Context())
	if err != nil {
		return mapRepoError(err, "Categories not found")
	}
	return c.JSON(http.StatusOK, categories)
}
