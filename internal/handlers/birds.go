package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/media"
	"github.com/wingfest/backend/internal/models"
	"github.com/wingfest/backend/internal/scoring"
)

type BirdHandler struct {
	db    *gorm.DB
	media *media.Store
}

func NewBirdHandler(db *gorm.DB, mediaStore *media.Store) *BirdHandler {
	return &BirdHandler{db: db, media: mediaStore}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBird returns a single bird with derived scores and, when the caller is
// authenticated, their vote and evaluation state for it
func (h *BirdHandler) GetBird(c *gin.Context) {
	birdID := c.Param("id")
	var bird models.Bird

	if err := h.db.Preload("Owner").First(&bird, birdID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bird not found"})
		return
	}

	judgeScore := scoring.JudgeScore(h.db, bird.ID)
	votes := scoring.VisitorVotes(h.db, bird.ID)

	response := gin.H{
		"id":            bird.ID,
		"name":          bird.Name,
		"description":   bird.Description,
		"image":         bird.Image,
		"thumbnail":     bird.Thumbnail,
		"owner":         bird.Owner,
		"owner_id":      bird.OwnerID,
		"category_id":   bird.CategoryID,
		"submitted_at":  bird.SubmittedAt,
		"judge_score":   judgeScore,
		"visitor_votes": votes,
		"total_score":   judgeScore*scoring.JudgeWeight + float64(votes),
	}

	if userID, ok := extractUserID(c); ok {
		hasVoted := scoring.HasVoted(h.db, bird.ID, userID)
		response["has_voted"] = hasVoted
		response["can_vote"] = bird.OwnerID != userID && !hasVoted

		var judgeCount int64
		h.db.Model(&models.JudgeRole{}).Where("user_id = ?", userID).Count(&judgeCount)
		if judgeCount > 0 {
			evaluation, err := scoring.GetEvaluation(h.db, bird.ID, userID)
			if err == nil && evaluation != nil {
				response["my_evaluation"] = evaluation
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// UploadBird creates a new bird from a multipart form (PROTECTED)
func (h *BirdHandler) UploadBird(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	name := c.PostForm("name")
	description := c.PostForm("description")
	categoryID, err := strconv.Atoi(c.PostForm("category_id"))
	if name == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and category_id are required"})
		return
	}

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	imagePath, thumbPath, err := h.media.SaveImage(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to store image"})
		return
	}

	bird := models.Bird{
		Name:        name,
		Description: description,
		Image:       imagePath,
		Thumbnail:   thumbPath,
		OwnerID:     userID,
		CategoryID:  category.ID,
	}

	if err := h.db.Create(&bird).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bird"})
		return
	}

	h.db.Preload("Owner").First(&bird, bird.ID)

	c.JSON(http.StatusCreated, bird)
}

// VoteBird casts the caller's one vote for a bird (PROTECTED)
func (h *BirdHandler) VoteBird(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	birdID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bird not found"})
		return
	}

	_, err = scoring.CastVote(h.db, birdID, userID)
	switch {
	case errors.Is(err, scoring.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bird not found"})
	case errors.Is(err, scoring.ErrOwnBird):
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot vote for your own bird"})
	case errors.Is(err, scoring.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already voted for this bird"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":       "Vote recorded",
			"visitor_votes": scoring.VisitorVotes(h.db, birdID),
		})
	}
}
