package services

import (
	"context"
	"errors"
	"fmt"

	"medical-records-server/internal/models"
	"medical-records-server/internal/repository"
)

// ReportService manages reports written about images.
type ReportService struct {
	reports repository.ReportRepository
	images  repository.ImageRepository
}

func NewReportService(reports repository.ReportRepository, images repository.ImageRepository) *ReportService {
	return &ReportService{reports: reports, images: images}
}

// Create stores a report for an image that has none yet.
func (s *ReportService) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	if report.ImageID == 0 {
		return nil, fmt.Errorf("%w: report must reference an image", ErrInvalidReference)
	}
	_, err := s.images.GetByID(ctx, report.ImageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: image %d", ErrInvalidReference, report.ImageID)
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.reports.ListByImage(ctx, report.ImageID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyReported
	}

	report.ID = 0
	report.Image = nil
	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReported
		}
		return nil, err
	}
	return s.reports.GetByID(ctx, report.ID)
}

func (s *ReportService) Get(ctx context.Context, id uint) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return report, err
}

func (s *ReportService) ListByImage(ctx context.Context, imageID uint) ([]models.Report, error) {
	return s.reports.ListByImage(ctx, imageID)
}

func (s *ReportService) Delete(ctx context.Context, id uint) error {
	err := s.reports.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
