package repository

import (
	"context"
	"fmt"

	"medical-records-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository defines the persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	ListByImage(ctx context.Context, imageID uint) ([]models.Report, error)
	Delete(ctx context.Context, id uint) error
}

type gormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a ReportRepository backed by gorm.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{db: db}
}

func (r *gormReportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error; err != nil {
		return fmt.Errorf("create report: %w", translate(err))
	}
	return nil
}

func (r *gormReportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("Image.Patient.Doctor").First(&report, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

func (r *gormReportRepository) ListByImage(ctx context.Context, imageID uint) ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.WithContext(ctx).Preload("Image.Patient.Doctor").
		Where("image_id = ?", imageID).
		Order("id asc").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("list reports of image %d: %w", imageID, err)
	}
	return reports, nil
}

func (r *gormReportRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Report{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete report %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
