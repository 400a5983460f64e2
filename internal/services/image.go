package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"medical-records-server/internal/models"
	"medical-records-server/internal/prediction"
	"medical-records-server/internal/repository"
	"medical-records-server/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// sniffLen is the number of leading bytes inspected for content type detection.
const sniffLen = 3072

// UploadInput is one image file addressed to a patient.
type UploadInput struct {
	PatientID uint
	FileName  string
	Content   io.Reader
}

// ImageService stores image files with their metadata and scores them.
type ImageService struct {
	images   repository.ImageRepository
	patients repository.PatientRepository
	reports  repository.ReportRepository
	store    storage.FileStore
	scorer   prediction.Scorer
	log      zerolog.Logger
}

func NewImageService(
	images repository.ImageRepository,
	patients repository.PatientRepository,
	reports repository.ReportRepository,
	store storage.FileStore,
	scorer prediction.Scorer,
	log zerolog.Logger,
) *ImageService {
	return &ImageService{
		images:   images,
		patients: patients,
		reports:  reports,
		store:    store,
		scorer:   scorer,
		log:      log,
	}
}

// Upload writes the file below the patient's directory and records its metadata.
func (s *ImageService) Upload(ctx context.Context, in UploadInput) (*models.Image, error) {
	name, err := storage.CleanFileName(in.FileName)
	if err != nil {
		return nil, fmt.Errorf("%w: file name %q", ErrValidation, in.FileName)
	}

	patient, err := s.patients.GetByID(ctx, in.PatientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: patient %d", ErrInvalidReference, in.PatientID)
	}
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(in.Content, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType := mimetype.Detect(head).String()

	dir := strconv.FormatUint(uint64(patient.ID), 10)
	path, size, err := s.store.Save(ctx, dir, name, br)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	image := &models.Image{
		FileName:    name,
		ContentType: contentType,
		Size:        size,
		StoredPath:  path,
		PatientID:   patient.ID,
	}
	if err := s.images.Create(ctx, image); err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	image.Patient = patient

	s.log.Info().
		Uint("image_id", image.ID).
		Uint("patient_id", patient.ID).
		Str("content_type", contentType).
		Int64("size", size).
		Msg("image stored")
	return image, nil
}

func (s *ImageService) Get(ctx context.Context, id uint) (*models.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return image, err
}

// ListByPatient returns the patient's images in upload order.
func (s *ImageService) ListByPatient(ctx context.Context, patientID uint) ([]models.Image, error) {
	return s.images.ListByPatient(ctx, patientID)
}

// Open returns the image metadata and a reader over its stored bytes.
// The caller closes the reader.
func (s *ImageService) Open(ctx context.Context, id uint) (*models.Image, io.ReadCloser, error) {
	image, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, image.StoredPath)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, nil, fmt.Errorf("%w: file of image %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}
	return image, rc, nil
}

// Predict scores the most recent image of a patient.
func (s *ImageService) Predict(ctx context.Context, patientID uint) (prediction.Result, error) {
	_, err := s.patients.GetByID(ctx, patientID)
	if errors.Is(err, repository.ErrNotFound) {
		return prediction.Result{}, fmt.Errorf("%w: patient %d", ErrNotFound, patientID)
	}
	if err != nil {
		return prediction.Result{}, err
	}

	image, err := s.images.LatestByPatient(ctx, patientID)
	if errors.Is(err, repository.ErrNotFound) {
		return prediction.Result{}, fmt.Errorf("%w: patient %d has no images", ErrNotFound, patientID)
	}
	if err != nil {
		return prediction.Result{}, err
	}
	return s.scorer.Score(ctx, image)
}

// Delete removes an image without a report together with its stored file.
func (s *ImageService) Delete(ctx context.Context, id uint) error {
	image, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	reports, err := s.reports.ListByImage(ctx, id)
	if err != nil {
		return err
	}
	if len(reports) > 0 {
		return fmt.Errorf("%w: image %d has a report", ErrInUse, id)
	}
	if err := s.images.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.removeFile(ctx, image.StoredPath)
	return nil
}

func (s *ImageService) removeFile(ctx context.Context, path string) {
	if err := s.store.Remove(ctx, path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("could not remove image file")
	}
}
