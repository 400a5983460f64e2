package services

import (
	"context"
	"sort"
	"sync"

	"medical-records-server/internal/models"
	"medical-records-server/internal/repository"
)

// fakeDB is a map-backed stand-in for the four gorm repositories. Reads resolve
// relations the way the gorm preloads do.
type fakeDB struct {
	mu       sync.Mutex
	nextID   uint
	doctors  map[uint]models.Doctor
	patients map[uint]models.Patient
	images   map[uint]models.Image
	reports  map[uint]models.Report

	imageCreateErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		doctors:  map[uint]models.Doctor{},
		patients: map[uint]models.Patient{},
		images:   map[uint]models.Image{},
		reports:  map[uint]models.Report{},
	}
}

func (f *fakeDB) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeDB) patient(id uint) (*models.Patient, bool) {
	p, ok := f.patients[id]
	if !ok {
		return nil, false
	}
	if d, ok := f.doctors[p.DoctorID]; ok {
		p.Doctor = &d
	}
	return &p, true
}

func (f *fakeDB) image(id uint) (*models.Image, bool) {
	img, ok := f.images[id]
	if !ok {
		return nil, false
	}
	img.Patient, _ = f.patient(img.PatientID)
	return &img, true
}

func sortedKeys[T any](m map[uint]T) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type fakeDoctors struct{ db *fakeDB }

func (r fakeDoctors) Create(_ context.Context, d *models.Doctor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.doctors {
		if existing.DNI == d.DNI {
			return repository.ErrDuplicate
		}
	}
	d.ID = r.db.id()
	r.db.doctors[d.ID] = *d
	return nil
}

func (r fakeDoctors) GetByID(_ context.Context, id uint) (*models.Doctor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	d, ok := r.db.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r fakeDoctors) GetByDNI(_ context.Context, dni string) (*models.Doctor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, d := range r.db.doctors {
		if d.DNI == dni {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeDoctors) Update(_ context.Context, d *models.Doctor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.doctors[d.ID] = *d
	return nil
}

func (r fakeDoctors) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.doctors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.doctors, id)
	return nil
}

type fakePatients struct{ db *fakeDB }

func (r fakePatients) Create(_ context.Context, p *models.Patient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = r.db.id()
	stored := *p
	stored.Doctor = nil
	r.db.patients[p.ID] = stored
	return nil
}

func (r fakePatients) GetByID(_ context.Context, id uint) (*models.Patient, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.patient(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r fakePatients) ListByDoctor(_ context.Context, doctorID uint) ([]models.Patient, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Patient{}
	for _, id := range sortedKeys(r.db.patients) {
		if p, _ := r.db.patient(id); p.DoctorID == doctorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r fakePatients) CountByDoctor(ctx context.Context, doctorID uint) (int64, error) {
	list, _ := r.ListByDoctor(ctx, doctorID)
	return int64(len(list)), nil
}

func (r fakePatients) Update(_ context.Context, p *models.Patient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored := *p
	stored.Doctor = nil
	r.db.patients[p.ID] = stored
	return nil
}

func (r fakePatients) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.patients, id)
	return nil
}

type fakeImages struct{ db *fakeDB }

func (r fakeImages) Create(_ context.Context, img *models.Image) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.imageCreateErr != nil {
		return r.db.imageCreateErr
	}
	img.ID = r.db.id()
	stored := *img
	stored.Patient = nil
	r.db.images[img.ID] = stored
	return nil
}

func (r fakeImages) GetByID(_ context.Context, id uint) (*models.Image, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	img, ok := r.db.image(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return img, nil
}

func (r fakeImages) ListByPatient(_ context.Context, patientID uint) ([]models.Image, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Image{}
	for _, id := range sortedKeys(r.db.images) {
		if img, _ := r.db.image(id); img.PatientID == patientID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (r fakeImages) LatestByPatient(ctx context.Context, patientID uint) (*models.Image, error) {
	list, _ := r.ListByPatient(ctx, patientID)
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return &list[len(list)-1], nil
}

func (r fakeImages) CountByPatient(ctx context.Context, patientID uint) (int64, error) {
	list, _ := r.ListByPatient(ctx, patientID)
	return int64(len(list)), nil
}

func (r fakeImages) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.images[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.images, id)
	return nil
}

type fakeReports struct{ db *fakeDB }

func (r fakeReports) Create(_ context.Context, rep *models.Report) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.reports {
		if existing.ImageID == rep.ImageID {
			return repository.ErrDuplicate
		}
	}
	rep.ID = r.db.id()
	stored := *rep
	stored.Image = nil
	r.db.reports[rep.ID] = stored
	return nil
}

func (r fakeReports) GetByID(_ context.Context, id uint) (*models.Report, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rep, ok := r.db.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rep.Image, _ = r.db.image(rep.ImageID)
	return &rep, nil
}

func (r fakeReports) ListByImage(_ context.Context, imageID uint) ([]models.Report, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Report{}
	for _, id := range sortedKeys(r.db.reports) {
		if rep := r.db.reports[id]; rep.ImageID == imageID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r fakeReports) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.reports, id)
	return nil
}
