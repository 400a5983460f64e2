package repository

import (
	"context"
	"fmt"

	"medical-records-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PatientRepository defines the persistence operations for patients.
// Reads return the patient with its doctor preloaded.
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id uint) (*models.Patient, error)
	ListByDoctor(ctx context.Context, doctorID uint) ([]models.Patient, error)
	CountByDoctor(ctx context.Context, doctorID uint) (int64, error)
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, id uint) error
}

type gormPatientRepository struct {
	db *gorm.DB
}

// NewPatientRepository returns a PatientRepository backed by gorm.
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &gormPatientRepository{db: db}
}

func (r *gormPatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(patient).Error; err != nil {
		return fmt.Errorf("create patient: %w", translate(err))
	}
	return nil
}

func (r *gormPatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Preload("Doctor").First(&patient, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

func (r *gormPatientRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Patient, error) {
	patients := []models.Patient{}
	err := r.db.WithContext(ctx).Preload("Doctor").
		Where("doctor_id = ?", doctorID).
		Order("id asc").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("list patients of doctor %d: %w", doctorID, err)
	}
	return patients, nil
}

func (r *gormPatientRepository) CountByDoctor(ctx context.Context, doctorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Patient{}).Where("doctor_id = ?", doctorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count patients of doctor %d: %w", doctorID, err)
	}
	return count, nil
}

func (r *gormPatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	res := r.db.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", patient.ID).
		Updates(map[string]interface{}{
			"name":        patient.Name,
			"age":         patient.Age,
			"appointment": patient.Appointment,
			"dni":         patient.DNI,
			"doctor_id":   patient.DoctorID,
		})
	if res.Error != nil {
		return fmt.Errorf("update patient %d: %w", patient.ID, translate(res.Error))
	}
	return nil
}

func (r *gormPatientRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete patient %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
