package scoring

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/wingfest/backend/internal/models"
)

// RankedBird is a bird together with its derived scores at ranking time.
type RankedBird struct {
	Bird         models.Bird `json:"bird"`
	JudgeScore   float64     `json:"judge_score"`
	VisitorVotes int         `json:"visitor_votes"`
	TotalScore   float64     `json:"total_score"`
}

func scoreBirds(db *gorm.DB, birds []models.Bird) []RankedBird {
	ranked := make([]RankedBird, 0, len(birds))
	for _, bird := range birds {
		js := JudgeScore(db, bird.ID)
		votes := VisitorVotes(db, bird.ID)
		ranked = append(ranked, RankedBird{
			Bird:         bird,
			JudgeScore:   js,
			VisitorVotes: votes,
			TotalScore:   js*JudgeWeight + float64(votes),
		})
	}
	return ranked
}

// RankCategory orders a category's birds by total score, highest first.
// Ties keep submission order (ascending id): birds are loaded by id and the
// sort is stable, so equal totals never reorder between requests.
func RankCategory(db *gorm.DB, categoryID int) ([]RankedBird, error) {
	var birds []models.Bird
	if err := db.Preload("Owner").Where("category_id = ?", categoryID).Order("id asc").Find(&birds).Error; err != nil {
		return nil, fmt.Errorf("loading birds for category %d: %w", categoryID, err)
	}

	ranked := scoreBirds(db, birds)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	return ranked, nil
}

// TopByJudgeScore returns the n highest birds across all categories by judge
// average alone. Same tie-break as RankCategory.
func TopByJudgeScore(db *gorm.DB, n int) ([]RankedBird, error) {
	return topBy(db, n, func(r RankedBird) float64 { return r.JudgeScore })
}

// TopByVisitorVotes returns the n highest birds across all categories by raw
// vote count alone.
func TopByVisitorVotes(db *gorm.DB, n int) ([]RankedBird, error) {
	return topBy(db, n, func(r RankedBird) float64 { return float64(r.VisitorVotes) })
}

func topBy(db *gorm.DB, n int, key func(RankedBird) float64) ([]RankedBird, error) {
	var birds []models.Bird
	if err := db.Preload("Owner").Order("id asc").Find(&birds).Error; err != nil {
		return nil, fmt.Errorf("loading birds: %w", err)
	}

	ranked := scoreBirds(db, birds)
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// CategoryWorklist is one category's entries split by whether the judge has
// already evaluated them. Every bird lands in exactly one of the two lists.
type CategoryWorklist struct {
	Category    models.Category `json:"category"`
	Unevaluated []models.Bird   `json:"unevaluated"`
	Evaluated   []models.Bird   `json:"evaluated"`
}

// Worklist partitions every bird in every category for the given judge.
// Role gating happens in the caller; this only answers "which birds has
// judge J scored".
func Worklist(db *gorm.DB, judgeID int) ([]CategoryWorklist, error) {
	var categories []models.Category
	if err := db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	var evaluations []models.JudgeEvaluation
	if err := db.Where("judge_id = ?", judgeID).Find(&evaluations).Error; err != nil {
		return nil, fmt.Errorf("loading evaluations for judge %d: %w", judgeID, err)
	}
	seen := make(map[int]bool, len(evaluations))
	for _, evaluation := range evaluations {
		seen[evaluation.BirdID] = true
	}

	worklists := make([]CategoryWorklist, 0, len(categories))
	for _, category := range categories {
		var birds []models.Bird
		if err := db.Preload("Owner").Where("category_id = ?", category.ID).Order("id asc").Find(&birds).Error; err != nil {
			return nil, fmt.Errorf("loading birds for category %d: %w", category.ID, err)
		}

		worklist := CategoryWorklist{
			Category:    category,
			Unevaluated: []models.Bird{},
			Evaluated:   []models.Bird{},
		}
		for _, bird := range birds {
			if seen[bird.ID] {
				worklist.Evaluated = append(worklist.Evaluated, bird)
			} else {
				worklist.Unevaluated = append(worklist.Unevaluated, bird)
			}
		}
		worklists = append(worklists, worklist)
	}

	return worklists, nil
}
