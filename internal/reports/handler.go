package reports

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"waranalyzer-backend/internal/shared/server/respond"
)

// Handler exposes the archived-report read endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports", h.listReports)
	rg.GET("/reports/:id/download", h.downloadReport)
}

func (h *Handler) listReports(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reports, err := h.Svc.List(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	if reports == nil {
		reports = []Report{}
	}

	respond.JSON(c, http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) downloadReport(c *gin.Context) {
	reportID := c.Param("id")

	report, body, err := h.Svc.Open(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open report", nil)
		return
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read report", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ProjectName+"_analysis_report.json"))
	c.Data(http.StatusOK, "application/json", data)
}
