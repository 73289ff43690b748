package models

// Profile represents a user profile (buyer or seller). Profiles are owned
// by the external identity system and are read-only to this service.
type Profile struct {
	ID                string `gorm:"primaryKey" json:"id"`
	Name              string `json:"name"`
	Role              string `gorm:"not null;default:'buyer'" json:"role"` // "buyer" or "seller"
	PreferredLanguage string `gorm:"not null;default:'en'" json:"preferred_language"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
