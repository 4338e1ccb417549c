package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/analyze/bottlenecks", h.AnalyzeBottlenecks)
	rg.POST("/analyze/logistics", h.AnalyzeLogistics)
	rg.POST("/analyze/power", h.AnalyzePower)

	rg.GET("/reports", h.ListReports)
}
