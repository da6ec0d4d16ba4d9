package models

import "time"

// JudgeEvaluation - one evaluation per (bird, judge). Unlike votes these are
// mutable: a judge revising their score overwrites the same row, which also
// bumps EvaluatedAt.
type JudgeEvaluation struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	BirdID      int       `gorm:"not null;uniqueIndex:idx_evaluations_bird_judge" json:"bird_id"`
	JudgeID     int       `gorm:"not null;uniqueIndex:idx_evaluations_bird_judge" json:"judge_id"`
	Score       int       `gorm:"not null" json:"score"`
	Comment     string    `json:"comment"`
	EvaluatedAt time.Time `gorm:"autoUpdateTime" json:"evaluated_at"`
}

type SubmitEvaluationRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}
