package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medical-records-server/internal/models"
	"medical-records-server/internal/repository"
)

// DoctorService manages the doctor registry.
type DoctorService struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func NewDoctorService(doctors repository.DoctorRepository, patients repository.PatientRepository) *DoctorService {
	return &DoctorService{doctors: doctors, patients: patients}
}

// Create stores a new doctor. Any client supplied id is ignored.
func (s *DoctorService) Create(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error) {
	if strings.TrimSpace(doctor.DNI) == "" {
		return nil, fmt.Errorf("%w: dni must not be empty", ErrValidation)
	}
	doctor.ID = 0
	if err := s.ensureDNIFree(ctx, doctor.DNI, 0); err != nil {
		return nil, err
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateDNI
		}
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return doctor, err
}

func (s *DoctorService) GetByDNI(ctx context.Context, dni string) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByDNI(ctx, dni)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return doctor, err
}

// Update replaces every field of the doctor addressed by doctor.ID.
func (s *DoctorService) Update(ctx context.Context, doctor *models.Doctor) error {
	if strings.TrimSpace(doctor.DNI) == "" {
		return fmt.Errorf("%w: dni must not be empty", ErrValidation)
	}
	if _, err := s.Get(ctx, doctor.ID); err != nil {
		return err
	}
	if err := s.ensureDNIFree(ctx, doctor.DNI, doctor.ID); err != nil {
		return err
	}
	if err := s.doctors.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateDNI
		}
		return err
	}
	return nil
}

// Delete removes a doctor that no patient refers to.
func (s *DoctorService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.patients.CountByDoctor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: doctor %d has %d patients", ErrInUse, id, count)
	}
	if err := s.doctors.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *DoctorService) ensureDNIFree(ctx context.Context, dni string, self uint) error {
	existing, err := s.doctors.GetByDNI(ctx, dni)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return ErrDuplicateDNI
	}
	return nil
}
