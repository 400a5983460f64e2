package repository

import (
	"context"
	"testing"

	"medical-records-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.InitDB(models.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", Silent: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedDoctor(t *testing.T, repo DoctorRepository, dni string) *models.Doctor {
	t.Helper()
	d := &models.Doctor{DNI: dni, Name: "Doctor " + dni, Specialty: "Cardiologia"}
	require.NoError(t, repo.Create(context.Background(), d))
	return d
}

func seedPatient(t *testing.T, repo PatientRepository, doctorID uint, name string) *models.Patient {
	t.Helper()
	p := &models.Patient{Name: name, Age: 30, Appointment: "2025-06-01", DNI: "87654321B", DoctorID: doctorID}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func seedImage(t *testing.T, repo ImageRepository, patientID uint, name string) *models.Image {
	t.Helper()
	img := &models.Image{FileName: name, ContentType: "image/png", Size: 4, StoredPath: "1/" + uuid.NewString() + "/" + name, PatientID: patientID}
	require.NoError(t, repo.Create(context.Background(), img))
	return img
}
