package handlers

import (
	"errors"

	"medical-records-server/internal/models"
	"medical-records-server/internal/services"
	"medical-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DoctorHandler handles /medico requests.
type DoctorHandler struct {
	Doctors *services.DoctorService
	Log     zerolog.Logger
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(doctors *services.DoctorService, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{Doctors: doctors, Log: log}
}

// DoctorRequest is the body of create and update requests. ID is only read on update.
type DoctorRequest struct {
	ID        uint   `json:"id"`
	DNI       string `json:"dni" binding:"required,max=20"`
	Name      string `json:"nombre" binding:"max=100"`
	Specialty string `json:"especialidad" binding:"max=100"`
}

func (r DoctorRequest) toModel() *models.Doctor {
	return &models.Doctor{
		BaseModel: models.BaseModel{ID: r.ID},
		DNI:       r.DNI,
		Name:      r.Name,
		Specialty: r.Specialty,
	}
}

// CreateDoctor handles POST /medico.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req DoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor, err := h.Doctors.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, doctor)
}

// GetDoctorByID handles GET /medico/:id.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.respondDoctor(c, func() (*models.Doctor, error) {
		return h.Doctors.Get(c.Request.Context(), id)
	})
}

// GetDoctorByDNI handles GET /medico/dni/:dni.
func (h *DoctorHandler) GetDoctorByDNI(c *gin.Context) {
	h.respondDoctor(c, func() (*models.Doctor, error) {
		return h.Doctors.GetByDNI(c.Request.Context(), c.Param("dni"))
	})
}

func (h *DoctorHandler) respondDoctor(c *gin.Context, get func() (*models.Doctor, error)) {
	doctor, err := get()
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Absent(c)
	case err != nil:
		respondError(c, h.Log, err)
	default:
		utils.OK(c, doctor)
	}
}

// UpdateDoctor handles PUT /medico. The body replaces every field of the doctor.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var req DoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.ID == 0 {
		utils.BadRequest(c, "id is required")
		return
	}

	if err := h.Doctors.Update(c.Request.Context(), req.toModel()); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}

// DeleteDoctor handles DELETE /medico/:id.
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Doctors.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Message(c, "Doctor deleted successfully")
}
