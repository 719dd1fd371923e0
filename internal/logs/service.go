package logs

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"speech-forge-api/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogService struct {
	DB *gorm.DB
}

// Record inserts one synthesis log row. Metadata (map/struct) is stored as
// JSON when provided; a marshal failure just drops the metadata.
func (ls *LogService) Record(entry SynthesisLog, metadata interface{}) error {
	var meta datatypes.JSON
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}

	row := SynthesisLog{
		Voice:       entry.Voice,
		Model:       entry.Model,
		Status:      entry.Status,
		Filename:    entry.Filename,
		MimeType:    entry.MimeType,
		Synthesized: entry.Synthesized,
		SizeBytes:   entry.SizeBytes,
		DurationMS:  entry.DurationMS,
		Error:       entry.Error,
		Metadata:    meta,
		CreatedAt:   time.Now(),
	}

	return ls.DB.Create(&row).Error
}

func (ls *LogService) GetLogs(input LogFilterInput) ([]SynthesisLog, LogAggregates, int64, int, error) {
	// Defaults
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 || input.PageSize > 100 {
		input.PageSize = 20
	}

	base := ls.DB.Table("synthesis_logs")

	// Default: last 30 days if no dates
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("synthesis_logs.created_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	if input.Voice != nil && strings.TrimSpace(*input.Voice) != "" {
		base = base.Where("synthesis_logs.voice = ?", strings.ToLower(strings.TrimSpace(*input.Voice)))
	}
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		base = base.Where("synthesis_logs.status = ?", strings.TrimSpace(*input.Status))
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}
	if hasStart {
		base = base.Where("synthesis_logs.created_at >= ?", start)
	}
	if hasEnd {
		base = base.Where("synthesis_logs.created_at < ?", endExclusive)
	}

	// Search across filename, model, voice and error text. LOWER+LIKE keeps
	// the query portable between postgres and the sqlite dev fallback.
	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		base = base.Where(
			`LOWER(COALESCE(synthesis_logs.filename,'')) LIKE ?
			 OR LOWER(synthesis_logs.model) LIKE ?
			 OR LOWER(synthesis_logs.voice) LIKE ?
			 OR LOWER(COALESCE(synthesis_logs.error,'')) LIKE ?`,
			like, like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var rows []SynthesisLog
	if err := base.
		Session(&gorm.Session{}).
		Order("synthesis_logs.created_at DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	aggs, err := ls.getAggregatesFromBase(base)
	if err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	return rows, aggs, total, totalPages, nil
}

func (ls *LogService) getAggregatesFromBase(base *gorm.DB) (LogAggregates, error) {
	aggs := LogAggregates{}

	// Derived table so the aggregate filters are identical to the listing
	sub := base.Session(&gorm.Session{}).
		Select("synthesis_logs.voice, synthesis_logs.status")
	derived := ls.DB.Table("(?) as x", sub)

	type r struct {
		Label string
		Count int64
	}

	var byVoice []r
	if err := derived.Session(&gorm.Session{}).
		Select("x.voice AS label, COUNT(*) AS count").
		Group("label").
		Order("count DESC").
		Scan(&byVoice).Error; err != nil {
		return LogAggregates{}, err
	}
	aggs.ByVoice = make([]AggItem, 0, len(byVoice))
	for _, row := range byVoice {
		aggs.ByVoice = append(aggs.ByVoice, AggItem{Label: row.Label, Count: row.Count})
	}

	var byStatus []r
	if err := derived.Session(&gorm.Session{}).
		Select("x.status AS label, COUNT(*) AS count").
		Group("label").
		Order("count DESC").
		Scan(&byStatus).Error; err != nil {
		return LogAggregates{}, err
	}
	aggs.ByStatus = make([]AggItem, 0, len(byStatus))
	for _, row := range byStatus {
		aggs.ByStatus = append(aggs.ByStatus, AggItem{Label: row.Label, Count: row.Count})
	}

	return aggs, nil
}
