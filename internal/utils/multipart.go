package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ImagePartName   = "image"
	PatientPartName = "paciente"

	maxPatientPartBytes = 64 << 10
)

var (
	ErrNotMultipart       = errors.New("request must be multipart/form-data")
	ErrMissingImagePart   = errors.New(`multipart part "image" is required`)
	ErrMissingPatientPart = errors.New(`multipart part "paciente" is required`)
	ErrInvalidPatientPart = errors.New(`multipart part "paciente" must be a JSON patient with an id`)
	ErrUploadTooLarge     = errors.New("upload exceeds the maximum allowed size")
)

// EntityRef is a reference to another entity by id, as sent inside request bodies.
type EntityRef struct {
	ID uint `json:"id" binding:"required"`
}

// ImageUpload is a decoded image upload request.
type ImageUpload struct {
	File    *multipart.FileHeader
	Patient EntityRef
}

// DecodeImageUpload extracts the image file part and the JSON patient part of a
// multipart request. Both parts must be present; the patient part may be sent as a
// plain form value or as a file part.
func DecodeImageUpload(c *gin.Context, maxBytes int64) (*ImageUpload, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, ErrUploadTooLarge
		case errors.Is(err, http.ErrNotMultipart):
			return nil, ErrNotMultipart
		default:
			return nil, fmt.Errorf("%w: %v", ErrNotMultipart, err)
		}
	}

	files := form.File[ImagePartName]
	if len(files) == 0 {
		return nil, ErrMissingImagePart
	}

	raw, err := patientPart(form)
	if err != nil {
		return nil, err
	}

	var ref EntityRef
	if err := json.Unmarshal(raw, &ref); err != nil || ref.ID == 0 {
		return nil, ErrInvalidPatientPart
	}

	return &ImageUpload{File: files[0], Patient: ref}, nil
}

func patientPart(form *multipart.Form) ([]byte, error) {
	if values := form.Value[PatientPartName]; len(values) > 0 {
		return []byte(values[0]), nil
	}
	files := form.File[PatientPartName]
	if len(files) == 0 {
		return nil, ErrMissingPatientPart
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open patient part: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxPatientPartBytes))
	if err != nil {
		return nil, fmt.Errorf("read patient part: %w", err)
	}
	return raw, nil
}
