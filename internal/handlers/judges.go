package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/scoring"
)

type JudgeHandler struct {
	db *gorm.DB
}

func NewJudgeHandler(db *gorm.DB) *JudgeHandler {
	return &JudgeHandler{db: db}
}

// SubmitEvaluation creates or revises the caller's evaluation of a bird
// (PROTECTED, judge only). A second submission from the same judge
// overwrites the first.
func (h *JudgeHandler) SubmitEvaluation(c *gin.Context) {
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

	// No binding:"required" on Score: a missing or zero score must reach the
	// ledger and come back as an invalid-score outcome, not a bind error.
	var input struct {
		Score   int    `json:"score"`
		Comment string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation, err := scoring.SubmitEvaluation(h.db, birdID, userID, input.Score, input.Comment)
	switch {
	case errors.Is(err, scoring.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bird not found"})
	case errors.Is(err, scoring.ErrInvalidScore):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Score must be between 1 and 10"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save evaluation"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":    "Evaluation saved",
			"evaluation": evaluation,
		})
	}
}

// Worklist returns the caller's evaluated/unevaluated birds per category
// (PROTECTED, judge only)
func (h *JudgeHandler) Worklist(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	worklists, err := scoring.Worklist(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build worklist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": worklists})
}
