package models

// Company is the root of a relational graph.
//
// Addresses are created together with the company. Tags must already exist;
// inserting a company only creates the company_tags join rows for them.
type Company struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Addresses []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses"`
	Tags      []Tag     `gorm:"many2many:company_tags" json:"tags"`
}

// Address is a row owned by a [Company].
type Address struct {
	ID        int64    `gorm:"primaryKey" json:"id"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	CountryID int64    `gorm:"not null;index" json:"country_id"`
	Country   *Country `json:"country,omitempty"`
	CompanyID int64    `gorm:"not null;index" json:"company_id"`
}
