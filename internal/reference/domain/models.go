package domain

import "time"

// Country is a reporting jurisdiction. Name matches the spelling used on
// published emission factors, so non-ISO regions such as "European Union"
// and "Global" carry synthetic codes.
type Country struct {
	Code      string    `json:"code" gorm:"type:text;primaryKey;column:code"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Region    string    `json:"region,omitempty" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Country) TableName() string { return "countries" }

// FuelType is a distinct fuel observed on active emission factors,
// surfaced so clients can populate pickers without guessing spellings.
type FuelType struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}
