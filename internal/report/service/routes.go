package service

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API under /api/v1.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/config", s.Config)
		v1.GET("/search", s.Search)
		v1.POST("/meta", s.FetchMeta)

		v1.POST("/reports", s.Generate)
		v1.GET("/reports", s.ListReports)
		v1.GET("/reports/:id", s.GetReport)
		v1.DELETE("/reports/:id", s.DeleteReport)
		v1.GET("/reports/:id/export", s.ExportReport)
	}
}
