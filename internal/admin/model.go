package admin

type AdminReportRequest struct {
	Voice  *string `json:"voice"`
	Status *string `json:"status"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD"
	EndDate   *string `json:"end_date"`

	// "excel" (default) or "csv"
	Format string `json:"format"`
}

// Hard cap so a runaway table cannot balloon the export.
const maxReportRows = 10000
