package models

// Image is the metadata of an uploaded diagnostic image. The bytes live in the file store.
type Image struct {
	BaseModel
	FileName    string `gorm:"size:255;not null" json:"nombre"`
	ContentType string `gorm:"size:100" json:"tipo"`
	Size        int64  `json:"tamano"`
	StoredPath  string `gorm:"size:512;index;not null" json:"-"`
	PatientID   uint   `gorm:"index;not null" json:"-"`

	// Relations
	Patient *Patient `gorm:"foreignKey:PatientID" json:"paciente"`
}
