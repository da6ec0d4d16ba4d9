package models

import "time"

// VisitorVote - one vote per (bird, visitor), enforced by the composite
// unique index. Weight is always 1; kept as a column so the schema states it.
type VisitorVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	BirdID    int       `gorm:"not null;uniqueIndex:idx_votes_bird_visitor" json:"bird_id"`
	VisitorID int       `gorm:"not null;uniqueIndex:idx_votes_bird_visitor" json:"visitor_id"`
	Weight    int       `gorm:"not null;default:1" json:"weight"`
	VotedAt   time.Time `gorm:"autoCreateTime" json:"voted_at"`
}
