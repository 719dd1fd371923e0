package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService AdminServiceAPI
}

func (ac *AdminController) DownloadSynthesisReport(c *gin.Context) {
	var req AdminReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentType, filename, data, err := ac.AdminService.ExportSynthesisReport(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
