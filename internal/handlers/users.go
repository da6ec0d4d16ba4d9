package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/models"
	"github.com/wingfest/backend/internal/scoring"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUserProfile returns an exhibitor's profile: their birds with derived
// scores, how many votes they have cast, and whether they sit on the panel
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID := c.Param("id")
	var user models.User

	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var birds []models.Bird
	h.db.Where("owner_id = ?", userID).Order("submitted_at desc").Find(&birds)

	var birdResponses []gin.H
	for _, bird := range birds {
		judgeScore := scoring.JudgeScore(h.db, bird.ID)
		votes := scoring.VisitorVotes(h.db, bird.ID)
		birdResponses = append(birdResponses, gin.H{
			"id":            bird.ID,
			"name":          bird.Name,
			"thumbnail":     bird.Thumbnail,
			"category_id":   bird.CategoryID,
			"submitted_at":  bird.SubmittedAt,
			"judge_score":   judgeScore,
			"visitor_votes": votes,
			"total_score":   judgeScore*scoring.JudgeWeight + float64(votes),
		})
	}
	if birdResponses == nil {
		birdResponses = []gin.H{}
	}

	var votesCast, judgeCount int64
	h.db.Model(&models.VisitorVote{}).Where("visitor_id = ?", userID).Count(&votesCast)
	h.db.Model(&models.JudgeRole{}).Where("user_id = ?", user.ID).Count(&judgeCount)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"is_judge": judgeCount > 0,
		},
		"birds":      birdResponses,
		"votes_cast": votesCast,
	})
}
