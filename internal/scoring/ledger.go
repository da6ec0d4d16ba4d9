package scoring

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wingfest/backend/internal/models"
)

// Valid judge score range.
const (
	MinScore = 1
	MaxScore = 10
)

// CastVote records one visitor vote for a bird. The (bird, visitor) unique
// index is the source of truth for "already voted": a duplicate insert is
// reported by the store as a constraint violation, which we translate to
// ErrAlreadyVoted and the existing vote stays untouched. Self-votes are
// rejected here, not left to the presentation layer.
func CastVote(db *gorm.DB, birdID, visitorID int) (*models.VisitorVote, error) {
	var bird models.Bird
	if err := db.First(&bird, birdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading bird %d: %w", birdID, err)
	}

	if bird.OwnerID == visitorID {
		return nil, ErrOwnBird
	}

	vote := models.VisitorVote{
		BirdID:    birdID,
		VisitorID: visitorID,
		Weight:    1,
	}

	if err := db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("recording vote: %w", err)
	}

	return &vote, nil
}

// HasVoted reports whether the visitor already has a vote on record for the bird.
func HasVoted(db *gorm.DB, birdID, visitorID int) bool {
	var count int64
	db.Model(&models.VisitorVote{}).
		Where("bird_id = ? AND visitor_id = ?", birdID, visitorID).
		Count(&count)
	return count > 0
}

// SubmitEvaluation creates or revises a judge's evaluation of a bird as a
// single upsert keyed by (bird, judge). A revision overwrites score, comment
// and timestamp on the existing row; there is never a second row per judge
// and never a visible half-written state. An out-of-range score fails before
// anything is written.
func SubmitEvaluation(db *gorm.DB, birdID, judgeID, score int, comment string) (*models.JudgeEvaluation, error) {
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidScore
	}

	var bird models.Bird
	if err := db.First(&bird, birdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading bird %d: %w", birdID, err)
	}

	evaluation := models.JudgeEvaluation{
		BirdID:  birdID,
		JudgeID: judgeID,
		Score:   score,
		Comment: comment,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bird_id"}, {Name: "judge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "evaluated_at"}),
	}).Create(&evaluation).Error
	if err != nil {
		return nil, fmt.Errorf("saving evaluation: %w", err)
	}

	// Reload so the caller sees the committed row, not the insert attempt.
	var saved models.JudgeEvaluation
	if err := db.Where("bird_id = ? AND judge_id = ?", birdID, judgeID).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("reloading evaluation: %w", err)
	}

	return &saved, nil
}

// GetEvaluation returns the judge's current evaluation for a bird, or nil if
// they have not evaluated it yet.
func GetEvaluation(db *gorm.DB, birdID, judgeID int) (*models.JudgeEvaluation, error) {
	var evaluation models.JudgeEvaluation
	err := db.Where("bird_id = ? AND judge_id = ?", birdID, judgeID).First(&evaluation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading evaluation: %w", err)
	}
	return &evaluation, nil
}
