package models

// Report is an informe written about a single image.
type Report struct {
	BaseModel
	Content    string `gorm:"type:text" json:"contenido"`
	Prediction string `gorm:"type:text" json:"prediccion"`
	ImageID    uint   `gorm:"uniqueIndex;not null" json:"-"`

	// Relations
	Image *Image `gorm:"foreignKey:ImageID" json:"imagen"`
}
