package logs

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type SynthesisLog struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Voice       string         `gorm:"size:20;not null" json:"voice"`
	Model       string         `gorm:"size:100;not null" json:"model"`
	Status      string         `gorm:"size:20;not null;index" json:"status"`
	Filename    *string        `gorm:"size:512" json:"filename,omitempty"`
	MimeType    *string        `gorm:"size:100" json:"mime_type,omitempty"`
	Synthesized bool           `json:"synthesized"`
	SizeBytes   int64          `json:"size_bytes"`
	DurationMS  int64          `json:"duration_ms"`
	Error       *string        `gorm:"type:text" json:"error,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SynthesisLog) TableName() string {
	return "synthesis_logs"
}

type LogFilterInput struct {
	Voice  *string `json:"voice"`
	Status *string `json:"status"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD"
	EndDate   *string `json:"end_date"`

	Search   *string `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type AggItem struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type LogAggregates struct {
	ByVoice  []AggItem `json:"by_voice"`
	ByStatus []AggItem `json:"by_status"`
}
