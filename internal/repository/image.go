package repository

import (
	"context"
	"fmt"

	"medical-records-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImageRepository defines the persistence operations for image metadata.
// Reads return the image with its patient and the patient's doctor preloaded.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	ListByPatient(ctx context.Context, patientID uint) ([]models.Image, error)
	LatestByPatient(ctx context.Context, patientID uint) (*models.Image, error)
	CountByPatient(ctx context.Context, patientID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type gormImageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns an ImageRepository backed by gorm.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &gormImageRepository{db: db}
}

func (r *gormImageRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Patient.Doctor")
}

func (r *gormImageRepository) Create(ctx context.Context, image *models.Image) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(image).Error; err != nil {
		return fmt.Errorf("create image: %w", translate(err))
	}
	return nil
}

func (r *gormImageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.preloaded(ctx).First(&image, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

func (r *gormImageRepository) ListByPatient(ctx context.Context, patientID uint) ([]models.Image, error) {
	images := []models.Image{}
	err := r.preloaded(ctx).Where("patient_id = ?", patientID).Order("id asc").Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list images of patient %d: %w", patientID, err)
	}
	return images, nil
}

func (r *gormImageRepository) LatestByPatient(ctx context.Context, patientID uint) (*models.Image, error) {
	var image models.Image
	err := r.preloaded(ctx).Where("patient_id = ?", patientID).Order("id desc").First(&image).Error
	if err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

func (r *gormImageRepository) CountByPatient(ctx context.Context, patientID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Image{}).Where("patient_id = ?", patientID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count images of patient %d: %w", patientID, err)
	}
	return count, nil
}

func (r *gormImageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Image{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete image %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
