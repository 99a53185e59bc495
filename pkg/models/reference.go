package models

// Country is a reference entity addressed by [Address.CountryID] and
// [AddressDocument.CountryID].
type Country struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Code string `gorm:"not null" json:"code"`
	Name string `gorm:"not null" json:"name"`
}

// Tag is a reference entity attached to companies.
type Tag struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Code string `gorm:"not null" json:"code"`
	Name string `gorm:"not null" json:"name"`
}
