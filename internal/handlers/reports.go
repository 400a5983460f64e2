package handlers

import (
	"errors"

	"medical-records-server/internal/models"
	"medical-records-server/internal/services"
	"medical-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReportHandler handles /informe requests.
type ReportHandler struct {
	Reports *services.ReportService
	Log     zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *services.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{Reports: reports, Log: log}
}

// ReportRequest is the body of POST /informe.
type ReportRequest struct {
	Content    string           `json:"contenido" binding:"required"`
	Prediction string           `json:"prediccion"`
	Image      *utils.EntityRef `json:"imagen" binding:"required"`
}

// CreateReport handles POST /informe.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req ReportRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	report, err := h.Reports.Create(c.Request.Context(), &models.Report{
		Content:    req.Content,
		Prediction: req.Prediction,
		ImageID:    req.Image.ID,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, report)
}

// GetReportByID handles GET /informe/:id.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	report, err := h.Reports.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Absent(c)
	case err != nil:
		respondError(c, h.Log, err)
	default:
		utils.OK(c, report)
	}
}

// GetReportsByImage handles GET /informe/imagen/:imagenId.
func (h *ReportHandler) GetReportsByImage(c *gin.Context) {
	imageID, ok := parseID(c, "imagenId")
	if !ok {
		return
	}

	reports, err := h.Reports.ListByImage(c.Request.Context(), imageID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.OK(c, reports)
}

// DeleteReport handles DELETE /informe/:id.
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Reports.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}
