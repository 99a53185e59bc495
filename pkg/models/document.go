package models

// CompanyDocument is the document shape of a company.
//
// Addresses are embedded. Tags holds the ids of the referenced [Tag]s.
type CompanyDocument struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Addresses []AddressDocument `json:"addresses"`
	Tags      []int64           `json:"tags"`
}

// AddressDocument is an address embedded in a [CompanyDocument].
type AddressDocument struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	CountryID int64  `json:"country_id"`
}

// CountryIDs returns the distinct country ids referenced by the company's
// addresses, in first-seen order. It is computed on every call.
func (c *CompanyDocument) CountryIDs() []int64 {
	ids := make([]int64, 0, len(c.Addresses))
	seen := make(map[int64]struct{}, len(c.Addresses))
	for _, a := range c.Addresses {
		if _, ok := seen[a.CountryID]; ok {
			continue
		}
		seen[a.CountryID] = struct{}{}
		ids = append(ids, a.CountryID)
	}
	return ids
}
