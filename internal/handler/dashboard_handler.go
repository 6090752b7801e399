package handler

import (
	"net/http"

	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the back-office overview.
type DashboardHandler struct {
	adminService *service.AdminService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(adminService *service.AdminService) *DashboardHandler {
	return &DashboardHandler{adminService: adminService}
}

// Summary godoc
// GET /api/v1/admin/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
