package handlers

import (
	"net/http"
	"strings"

	"mediadesk-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

// categoryRequest is the create/update body. ParentID stays a string pointer
// so an empty string (which the admin UI submits for "no parent") can be
// normalized to null instead of failing the uuid parse.
type categoryRequest struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parent_id"`
	Episodes *int    `json:"episodes"`
}

// resolveParentID normalizes and validates a raw parent id value. An empty
// string means "no parent". A non-empty value must parse, must reference an
// existing category, and that parent must be a main category (the hierarchy
// is exactly two levels deep).
func (h *CategoryHandler) resolveParentID(raw string) (*uuid.UUID, string) {
	if strings.TrimSpace(raw) == "" {
		return nil, ""
	}

	parentID, err := uuid.Parse(raw)
	if err != nil {
		return nil, "Invalid parent category ID"
	}

	var parent models.Category
	if err := h.DB.Where("id = ?", parentID).First(&parent).Error; err != nil {
		return nil, "Parent category not found"
	}
	if !parent.IsMain() {
		return nil, "Parent must be a main category"
	}

	return &parentID, ""
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Order("created_at DESC").Find(&categories).Error; err != nil {
		log.Error().Err(err).Msg("failed to fetch categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category

	if err := h.DB.Preload("Subcategories").Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a category name"})
		return
	}
	name := strings.TrimSpace(*req.Name)
	if len(name) > models.MaxCategoryNameLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be more than 60 characters"})
		return
	}

	category := models.Category{
		ID:   uuid.New(),
		Name: name,
	}
	if req.Episodes != nil {
		category.Episodes = *req.Episodes
	}
	if req.ParentID != nil {
		parentID, errMsg := h.resolveParentID(*req.ParentID)
		if errMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
			return
		}
		category.ParentID = parentID
	}

	if err := h.DB.Create(&category).Error; err != nil {
		log.Error().Err(err).Msg("failed to create category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category

	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Partial update: only supplied fields change
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a category name"})
			return
		}
		if len(name) > models.MaxCategoryNameLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be more than 60 characters"})
			return
		}
		category.Name = name
	}
	if req.Episodes != nil {
		category.Episodes = *req.Episodes
	}
	if req.ParentID != nil {
		parentID, errMsg := h.resolveParentID(*req.ParentID)
		if errMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
			return
		}
		if parentID != nil && *parentID == category.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category cannot be its own parent"})
			return
		}
		// The hierarchy is exactly two levels, so a category that still has
		// sub-categories cannot itself become a sub-category.
		if parentID != nil {
			var childCount int64
			if err := h.DB.Model(&models.Category{}).Where("parent_id = ?", category.ID).Count(&childCount).Error; err != nil {
				log.Error().Err(err).Msg("failed to count subcategories")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
				return
			}
			if childCount > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot make a category with sub-categories a sub-category"})
				return
			}
		}
		category.ParentID = parentID
	}

	// Save with Select so a parent cleared to null is actually persisted
	if err := h.DB.Model(&category).Select("name", "parent_id", "episodes").Updates(map[string]interface{}{
		"name":      category.Name,
		"parent_id": category.ParentID,
		"episodes":  category.Episodes,
	}).Error; err != nil {
		log.Error().Err(err).Msg("failed to update category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category and cascades to its direct children. The
// read of the child set and both deletes run in one transaction so a
// concurrently inserted sub-category cannot be orphaned between them.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var deletedSubs int64
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("parent_id = ?", category.ID).Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		}
		deletedSubs = result.RowsAffected

		return tx.Delete(&category).Error
	})
	if err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("failed to delete category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":               "Category deleted successfully",
		"deleted_subcategories": deletedSubs,
	})
}
