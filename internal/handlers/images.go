package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medical-records-server/internal/services"
	"medical-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ImageHandler handles /imagen requests.
type ImageHandler struct {
	Images         *services.ImageService
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images *services.ImageService, maxUploadBytes int64, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{Images: images, MaxUploadBytes: maxUploadBytes, Log: log}
}

// uploadResponse renders the upload acknowledgement clients match byte for byte.
// The file name is JSON escaped but not HTML escaped.
func uploadResponse(fileName string) []byte {
	var msg bytes.Buffer
	enc := json.NewEncoder(&msg)
	enc.SetEscapeHTML(false)
	_ = enc.Encode("file uploaded successfully : " + fileName)
	return []byte(`{"response" : ` + strings.TrimSuffix(msg.String(), "\n") + `}`)
}

// UploadImage handles POST /imagen with an "image" file part and a "paciente" JSON part.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	upload, err := utils.DecodeImageUpload(c, h.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, utils.ErrUploadTooLarge) {
			utils.TooLarge(c, fmt.Sprintf("%s (%d bytes)", err.Error(), h.MaxUploadBytes))
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	file, err := upload.File.Open()
	if err != nil {
		respondError(c, h.Log, fmt.Errorf("open uploaded file: %w", err))
		return
	}
	defer file.Close()

	image, err := h.Images.Upload(c.Request.Context(), services.UploadInput{
		PatientID: upload.Patient.ID,
		FileName:  upload.File.Filename,
		Content:   file,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.Data(http.StatusOK, "application/json", uploadResponse(image.FileName))
}

// GetImageByID handles GET /imagen/:id.
func (h *ImageHandler) GetImageByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	image, err := h.Images.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Absent(c)
	case err != nil:
		respondError(c, h.Log, err)
	default:
		utils.OK(c, image)
	}
}

// DownloadImage handles GET /imagen/:id/archivo and streams the stored bytes.
func (h *ImageHandler) DownloadImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	image, content, err := h.Images.Open(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	defer content.Close()

	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, image.Size, contentType, content, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", image.FileName),
	})
}

// GetImagesByPatient handles GET /imagen/paciente/:pacienteId.
func (h *ImageHandler) GetImagesByPatient(c *gin.Context) {
	patientID, ok := parseID(c, "pacienteId")
	if !ok {
		return
	}

	images, err := h.Images.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.OK(c, images)
}

// Predict handles GET /imagen/predict/:pacienteId.
func (h *ImageHandler) Predict(c *gin.Context) {
	patientID, ok := parseID(c, "pacienteId")
	if !ok {
		return
	}

	result, err := h.Images.Predict(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.OK(c, result)
}

// DeleteImage handles DELETE /imagen/:id.
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Images.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.NoContent(c)
}
