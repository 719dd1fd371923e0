package admin

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"speech-forge-api/internal/logs"
	"speech-forge-api/internal/util"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB
}

// ExportSynthesisReport renders the filtered synthesis history as a
// downloadable spreadsheet. Excel output carries a second sheet with the
// per-voice and per-status totals.
func (as *AdminService) ExportSynthesisReport(req AdminReportRequest) (string, string, []byte, error) {
	rows, err := as.fetchRows(req)
	if err != nil {
		return "", "", nil, err
	}

	ts := time.Now().Format("20060102_150405")

	switch strings.ToLower(strings.TrimSpace(req.Format)) {
	case "", "excel", "xlsx":
		data, err := buildReportXLSX(rows)
		if err != nil {
			return "", "", nil, err
		}
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			fmt.Sprintf("synthesis_report_%s.xlsx", ts), data, nil
	case "csv":
		data, err := buildReportCSV(rows)
		if err != nil {
			return "", "", nil, err
		}
		return "text/csv", fmt.Sprintf("synthesis_report_%s.csv", ts), data, nil
	default:
		return "", "", nil, fmt.Errorf("unsupported format %q", req.Format)
	}
}

func (as *AdminService) fetchRows(req AdminReportRequest) ([]logs.SynthesisLog, error) {
	q := as.DB.Table("synthesis_logs")

	if req.Voice != nil && strings.TrimSpace(*req.Voice) != "" {
		q = q.Where("synthesis_logs.voice = ?", strings.ToLower(strings.TrimSpace(*req.Voice)))
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		q = q.Where("synthesis_logs.status = ?", strings.TrimSpace(*req.Status))
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if hasStart {
		q = q.Where("synthesis_logs.created_at >= ?", start)
	}
	if hasEnd {
		q = q.Where("synthesis_logs.created_at < ?", endExclusive)
	}

	var rows []logs.SynthesisLog
	if err := q.
		Order("synthesis_logs.created_at DESC").
		Limit(maxReportRows).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ---- XLSX ----

func buildReportXLSX(rows []logs.SynthesisLog) ([]byte, error) {
	f := excelize.NewFile()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})

	defaultSheet := f.GetSheetName(0)

	sheet := "Syntheses"
	f.NewSheet(sheet)

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, len(reportColumns))
	for _, c := range reportColumns {
		header = append(header, excelize.Cell{Value: c, StyleID: headerStyle})
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		values := make([]interface{}, 0, len(reportColumns))
		for _, v := range reportValues(r) {
			values = append(values, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, values); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, headerStyle, rows); err != nil {
		return nil, err
	}

	if defaultSheet != "" {
		f.DeleteSheet(defaultSheet)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, headerStyle int, rows []logs.SynthesisLog) error {
	sheet := "Summary"
	f.NewSheet(sheet)

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", []interface{}{
		excelize.Cell{Value: "dimension", StyleID: headerStyle},
		excelize.Cell{Value: "label", StyleID: headerStyle},
		excelize.Cell{Value: "count", StyleID: headerStyle},
	}); err != nil {
		return err
	}

	byVoice := map[string]int{}
	byStatus := map[string]int{}
	for _, r := range rows {
		byVoice[r.Voice]++
		byStatus[r.Status]++
	}

	rowNum := 2
	for _, dim := range []struct {
		name   string
		counts map[string]int
	}{
		{"voice", byVoice},
		{"status", byStatus},
	} {
		labels := make([]string, 0, len(dim.counts))
		for l := range dim.counts {
			labels = append(labels, l)
		}
		sort.Strings(labels)

		for _, l := range labels {
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := sw.SetRow(cell, []interface{}{dim.name, l, dim.counts[l]}); err != nil {
				return err
			}
			rowNum++
		}
	}

	return sw.Flush()
}

// ---- CSV ----

func buildReportCSV(rows []logs.SynthesisLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportColumns); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(reportValues(r)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

var reportColumns = []string{
	"id", "created_at", "voice", "model", "status",
	"filename", "mime_type", "synthesized", "size_bytes", "duration_ms", "error",
}

func reportValues(r logs.SynthesisLog) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.CreatedAt.Format(time.RFC3339),
		r.Voice,
		r.Model,
		r.Status,
		strOrEmpty(r.Filename),
		strOrEmpty(r.MimeType),
		strconv.FormatBool(r.Synthesized),
		strconv.FormatInt(r.SizeBytes, 10),
		strconv.FormatInt(r.DurationMS, 10),
		strOrEmpty(r.Error),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
