package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	name, filename, contentType, body string
}

func multipartContext(t *testing.T, parts ...part) *gin.Context {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		disposition := `form-data; name="` + p.name + `"`
		if p.filename != "" {
			disposition += `; filename="` + p.filename + `"`
		}
		h.Set("Content-Disposition", disposition)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/imagen", &buf)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	return c
}

var (
	pngFilePart     = part{name: "image", filename: "healthy.png", contentType: "image/png", body: "\x89PNG\r\n\x1a\n"}
	patientJSONPart = part{name: "paciente", contentType: "application/json", body: `{"id":7,"nombre":"Ana"}`}
)

func TestDecodeImageUpload(t *testing.T) {
	c := multipartContext(t, pngFilePart, patientJSONPart)

	upload, err := DecodeImageUpload(c, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "healthy.png", upload.File.Filename)
	assert.Equal(t, uint(7), upload.Patient.ID)
}

func TestDecodeImageUpload_PatientAsFilePart(t *testing.T) {
	asFile := patientJSONPart
	asFile.filename = "paciente.json"
	c := multipartContext(t, pngFilePart, asFile)

	upload, err := DecodeImageUpload(c, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, uint(7), upload.Patient.ID)
}

func TestDecodeImageUpload_Errors(t *testing.T) {
	tests := []struct {
		name  string
		parts []part
		want  error
	}{
		{"no image", []part{patientJSONPart}, ErrMissingImagePart},
		{"no patient", []part{pngFilePart}, ErrMissingPatientPart},
		{"malformed patient", []part{pngFilePart, {name: "paciente", body: `{"id":`}}, ErrInvalidPatientPart},
		{"patient without id", []part{pngFilePart, {name: "paciente", body: `{"nombre":"Ana"}`}}, ErrInvalidPatientPart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := multipartContext(t, tt.parts...)
			_, err := DecodeImageUpload(c, 1<<20)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeImageUpload_NotMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/imagen", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	_, err := DecodeImageUpload(c, 1<<20)
	assert.ErrorIs(t, err, ErrNotMultipart)
}

func TestDecodeImageUpload_TooLarge(t *testing.T) {
	big := pngFilePart
	big.body = strings.Repeat("x", 4096)
	c := multipartContext(t, big, patientJSONPart)

	_, err := DecodeImageUpload(c, 1024)
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}
