package models

// Doctor represents a médico. DNI is the natural unique key.
type Doctor struct {
	BaseModel
	DNI       string `gorm:"size:20;uniqueIndex;not null" json:"dni"`
	Name      string `gorm:"size:100" json:"nombre"`
	Specialty string `gorm:"size:100" json:"especialidad"`
}
