package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type visitRequest struct {
	Name string     `json:"nombre" binding:"required"`
	Date string     `json:"cita" validate:"omitempty,datetime=2006-01-02"`
	Ref  *EntityRef `json:"medico" binding:"required"`
}

func bindBody(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		ok       bool
		contains string
	}{
		{"valid", `{"nombre":"Ana","cita":"2025-01-31","medico":{"id":3}}`, true, ""},
		{"missing name", `{"medico":{"id":3}}`, false, "Name"},
		{"missing ref", `{"nombre":"Ana"}`, false, "Ref"},
		{"zero ref id", `{"nombre":"Ana","medico":{"id":0}}`, false, "Ref.ID"},
		{"bad date", `{"nombre":"Ana","cita":"31/01/2025","medico":{"id":3}}`, false, "datetime"},
		{"malformed json", `{"nombre":`, false, "Invalid request payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := bindBody(tt.body)
			var req visitRequest

			ok := BindAndValidate(c, &req)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, uint(3), req.Ref.ID)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}
