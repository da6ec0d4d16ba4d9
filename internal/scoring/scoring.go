package scoring

import (
	"database/sql"

	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/models"
)

// JudgeWeight converts a judge's 1-10 score onto the visitor-vote scale: one
// judge carries the same weight as ten visitor votes. Fixed, never adaptive.
const JudgeWeight = 10

// JudgeScore returns the arithmetic mean of all current evaluation scores
// for a bird, or 0 when no judge has evaluated it. Each judge contributes
// exactly one score regardless of how many times they revised it.
func JudgeScore(db *gorm.DB, birdID int) float64 {
	var avg sql.NullFloat64
	row := db.Model(&models.JudgeEvaluation{}).
		Where("bird_id = ?", birdID).
		Select("AVG(score)").
		Row()
	if err := row.Scan(&avg); err != nil || !avg.Valid {
		return 0
	}
	return avg.Float64
}

// VisitorVotes returns the number of votes on record for a bird.
func VisitorVotes(db *gorm.DB, birdID int) int {
	var count int64
	db.Model(&models.VisitorVote{}).
		Where("bird_id = ?", birdID).
		Count(&count)
	return int(count)
}

// TotalScore combines the two ledgers into the ranking score. Recomputed
// from the ledgers on every call; there is no cached score anywhere.
func TotalScore(db *gorm.DB, birdID int) float64 {
	return JudgeScore(db, birdID)*JudgeWeight + float64(VisitorVotes(db, birdID))
}
