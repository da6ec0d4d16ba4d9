package handlers

import (
	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/media"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Category *CategoryHandler
	Bird     *BirdHandler
	Judge    *JudgeHandler
	Results  *ResultsHandler
	User     *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, mediaStore *media.Store) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(db),
		Category: NewCategoryHandler(db),
		Bird:     NewBirdHandler(db, mediaStore),
		Judge:    NewJudgeHandler(db),
		Results:  NewResultsHandler(db),
		User:     NewUserHandler(db),
	}
}
