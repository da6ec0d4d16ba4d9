package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/models"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// Birds per category page.
const pageSize = 9

// GetCategories returns all categories ordered by name, with entry counts
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var categories []models.Category

	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	var responses []gin.H
	for _, category := range categories {
		var birdCount int64
		h.db.Model(&models.Bird{}).Where("category_id = ?", category.ID).Count(&birdCount)
		responses = append(responses, gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
			"bird_count":  birdCount,
			"created_at":  category.CreatedAt,
		})
	}

	// If no categories, return empty array not null
	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, responses)
}

// GetCategory returns a category with one page of its birds (9 per page, ?page=N)
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID := c.Param("id")
	var category models.Category

	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	var total int64
	h.db.Model(&models.Bird{}).Where("category_id = ?", category.ID).Count(&total)

	var birds []models.Bird
	if err := h.db.Preload("Owner").
		Where("category_id = ?", category.ID).
		Order("submitted_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&birds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch birds"})
		return
	}

	if birds == nil {
		birds = []models.Bird{}
	}

	totalPages := int((total + pageSize - 1) / pageSize)

	c.JSON(http.StatusOK, gin.H{
		"category":    category,
		"birds":       birds,
		"page":        page,
		"total_pages": totalPages,
		"total_birds": total,
	})
}

// CreateCategory creates a new category (PROTECTED). Categories are
// immutable once created; there is no update or delete.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
	}

	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}
