package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/models"
	"github.com/wingfest/backend/internal/scoring"
)

type ResultsHandler struct {
	db *gorm.DB
}

func NewResultsHandler(db *gorm.DB) *ResultsHandler {
	return &ResultsHandler{db: db}
}

// How many birds each home-page leaderboard shows.
const homeTopCount = 3

// Results returns every category with its birds ranked by total score
func (h *ResultsHandler) Results(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	var responses []gin.H
	for _, category := range categories {
		ranked, err := scoring.RankCategory(h.db, category.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank category"})
			return
		}
		responses = append(responses, gin.H{
			"category": category,
			"ranking":  ranked,
		})
	}

	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, responses)
}

// Home returns the landing-page view: the six newest birds plus the top
// three by judge score and by visitor votes
func (h *ResultsHandler) Home(c *gin.Context) {
	var latest []models.Bird
	if err := h.db.Preload("Owner").Order("submitted_at desc").Limit(6).Find(&latest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch birds"})
		return
	}
	if latest == nil {
		latest = []models.Bird{}
	}

	topJudge, err := scoring.TopByJudgeScore(h.db, homeTopCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank birds"})
		return
	}

	topVisitor, err := scoring.TopByVisitorVotes(h.db, homeTopCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank birds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"latest_birds":      latest,
		"top_judge_birds":   topJudge,
		"top_visitor_birds": topVisitor,
	})
}
