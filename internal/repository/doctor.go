package repository

import (
	"context"
	"fmt"

	"medical-records-server/internal/models"

	"gorm.io/gorm"
)

// DoctorRepository defines the persistence operations for doctors.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id uint) (*models.Doctor, error)
	GetByDNI(ctx context.Context, dni string) (*models.Doctor, error)
	Update(ctx context.Context, doctor *models.Doctor) error
	Delete(ctx context.Context, id uint) error
}

type gormDoctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository returns a DoctorRepository backed by gorm.
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &gormDoctorRepository{db: db}
}

func (r *gormDoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if err := r.db.WithContext(ctx).Create(doctor).Error; err != nil {
		return fmt.Errorf("create doctor: %w", translate(err))
	}
	return nil
}

func (r *gormDoctorRepository) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

func (r *gormDoctorRepository) GetByDNI(ctx context.Context, dni string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("dni = ?", dni).First(&doctor).Error; err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

func (r *gormDoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	res := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("id = ?", doctor.ID).
		Updates(map[string]interface{}{
			"dni":       doctor.DNI,
			"name":      doctor.Name,
			"specialty": doctor.Specialty,
		})
	if res.Error != nil {
		return fmt.Errorf("update doctor %d: %w", doctor.ID, translate(res.Error))
	}
	return nil
}

func (r *gormDoctorRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Doctor{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete doctor %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
