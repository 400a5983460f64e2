package handlers

import (
	"errors"

	"medical-records-server/internal/models"
	"medical-records-server/internal/services"
	"medical-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PatientHandler handles /paciente requests.
type PatientHandler struct {
	Patients *services.PatientService
	Log      zerolog.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(patients *services.PatientService, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{Patients: patients, Log: log}
}

// PatientRequest is the body of create and update requests.
type PatientRequest struct {
	ID          uint             `json:"id"`
	Name        string           `json:"nombre" binding:"max=100"`
	Age         int              `json:"edad" binding:"gte=0,lte=150"`
	Appointment string           `json:"cita" validate:"omitempty,datetime=2006-01-02"`
	DNI         string           `json:"dni" binding:"max=20"`
	Doctor      *utils.EntityRef `json:"medico" binding:"required"`
}

func (r PatientRequest) toModel() *models.Patient {
	return &models.Patient{
		BaseModel:   models.BaseModel{ID: r.ID},
		Name:        r.Name,
		Age:         r.Age,
		Appointment: r.Appointment,
		DNI:         r.DNI,
		DoctorID:    r.Doctor.ID,
	}
}

// CreatePatient handles POST /paciente.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Patients.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, patient)
}

// GetPatientByID handles GET /paciente/:id.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	patient, err := h.Patients.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Absent(c)
	case err != nil:
		respondError(c, h.Log, err)
	default:
		utils.OK(c, patient)
	}
}

// GetPatientsByDoctor handles GET /paciente/medico/:medicoId.
func (h *PatientHandler) GetPatientsByDoctor(c *gin.Context) {
	doctorID, ok := parseID(c, "medicoId")
	if !ok {
		return
	}

	patients, err := h.Patients.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.OK(c, patients)
}

// UpdatePatient handles PUT /paciente, including reassignment to another doctor.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.ID == 0 {
		utils.BadRequest(c, "id is required")
		return
	}

	if err := h.Patients.Update(c.Request.Context(), req.toModel()); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}

// DeletePatient handles DELETE /paciente/:id.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Patients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Message(c, "Patient deleted successfully")
}
