package model

import (
	"time"

	"gorm.io/datatypes"
)

// TurnLog is one completed dialogue turn, kept for analytics. It never
// stores message text.
type TurnLog struct {
	Id           string                      `gorm:"type:varchar(64);primaryKey"`
	SessionId    string                      `gorm:"type:varchar(64);not null;index"`
	Intent       string                      `gorm:"type:varchar(32);not null;index"`
	IsRefusal    bool                        `gorm:"not null;default:false"`
	SafetyReason string                      `gorm:"type:varchar(64)"`
	CandidateIds datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Generated    bool                        `gorm:"not null;default:false"`
	LatencyMs    int64                       `gorm:"not null"`
	OccurredAt   time.Time                   `gorm:"not null;index"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
}

func (TurnLog) TableName() string {
	return "turn_logs"
}
