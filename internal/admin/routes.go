package admin

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, adminService *AdminService) {
	adminController := &AdminController{AdminService: adminService}

	adminGroup := r.Group("/api/admin")
	{
		adminGroup.POST("/report", adminController.DownloadSynthesisReport)
	}
}
