package models

// Patient represents a paciente. Every patient belongs to exactly one doctor.
type Patient struct {
	BaseModel
	Name        string `gorm:"size:100" json:"nombre"`
	Age         int    `json:"edad"`
	Appointment string `gorm:"size:10" json:"cita"` // YYYY-MM-DD
	DNI         string `gorm:"size:20;index" json:"dni"`
	DoctorID    uint   `gorm:"index;not null" json:"-"`

	// Relations
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"medico"`
}
