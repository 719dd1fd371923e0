package admin

type AdminServiceAPI interface {
	ExportSynthesisReport(req AdminReportRequest) (contentType string, filename string, data []byte, err error)
}
