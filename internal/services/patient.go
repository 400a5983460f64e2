package services

import (
	"context"
	"errors"
	"fmt"

	"medical-records-server/internal/models"
	"medical-records-server/internal/repository"
)

// PatientService manages patients and their doctor association.
type PatientService struct {
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	images   repository.ImageRepository
}

func NewPatientService(patients repository.PatientRepository, doctors repository.DoctorRepository, images repository.ImageRepository) *PatientService {
	return &PatientService{patients: patients, doctors: doctors, images: images}
}

// Create stores a patient assigned to an existing doctor and returns it with
// the doctor resolved.
func (s *PatientService) Create(ctx context.Context, patient *models.Patient) (*models.Patient, error) {
	if err := s.ensureDoctor(ctx, patient.DoctorID); err != nil {
		return nil, err
	}
	patient.ID = 0
	patient.Doctor = nil
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, patient.ID)
}

func (s *PatientService) Get(ctx context.Context, id uint) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return patient, err
}

// ListByDoctor returns the doctor's patients in creation order. An unknown
// doctor has no patients.
func (s *PatientService) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Patient, error) {
	return s.patients.ListByDoctor(ctx, doctorID)
}

// Update replaces every field of the patient, including its doctor.
func (s *PatientService) Update(ctx context.Context, patient *models.Patient) error {
	if _, err := s.Get(ctx, patient.ID); err != nil {
		return err
	}
	if err := s.ensureDoctor(ctx, patient.DoctorID); err != nil {
		return err
	}
	return s.patients.Update(ctx, patient)
}

// Delete removes a patient without images.
func (s *PatientService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.images.CountByPatient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: patient %d has %d images", ErrInUse, id, count)
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PatientService) ensureDoctor(ctx context.Context, doctorID uint) error {
	if doctorID == 0 {
		return fmt.Errorf("%w: patient must reference a doctor", ErrInvalidReference)
	}
	_, err := s.doctors.GetByID(ctx, doctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: doctor %d", ErrInvalidReference, doctorID)
	}
	return err
}
