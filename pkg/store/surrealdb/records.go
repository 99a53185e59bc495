package surrealdb

import (
	"fmt"
	"math"

	sdbmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
)

// The record types mirror the stored shape. Fields carry no omitempty so
// zero values are written instead of NONE.

type companyRecord struct {
	ID        *sdbmodels.RecordID  `json:"id,omitempty"`
	Name      string               `json:"name"`
	Addresses []addressRecord      `json:"addresses"`
	Tags      []sdbmodels.RecordID `json:"tags"`
}

type addressRecord struct {
	Street  string             `json:"street"`
	City    string             `json:"city"`
	State   string             `json:"state"`
	ZipCode string             `json:"zip_code"`
	Country sdbmodels.RecordID `json:"country"`
}

type referenceRecord struct {
	ID   *sdbmodels.RecordID `json:"id,omitempty"`
	Code string              `json:"code"`
	Name string              `json:"name"`
}

func newReferenceRecord(table string, id int64, code, name string) referenceRecord {
	return referenceRecord{
		ID:   &sdbmodels.RecordID{Table: table, ID: id},
		Code: code,
		Name: name,
	}
}

func (r referenceRecord) fields() (id int64, code, name string, err error) {
	if r.ID == nil {
		return 0, "", "", fmt.Errorf("record without id")
	}
	id, err = recordInt(r.ID.ID)
	return id, r.Code, r.Name, err
}

// newCompanyRecord converts c to its stored shape. The id is left unset.
func newCompanyRecord(c *models.CompanyDocument) companyRecord {
	rec := companyRecord{
		Name:      c.Name,
		Addresses: make([]addressRecord, len(c.Addresses)),
		Tags:      make([]sdbmodels.RecordID, len(c.Tags)),
	}
	for i, a := range c.Addresses {
		rec.Addresses[i] = addressRecord{
			Street:  a.Street,
			City:    a.City,
			State:   a.State,
			ZipCode: a.ZipCode,
			Country: sdbmodels.RecordID{Table: countriesTable, ID: a.CountryID},
		}
	}
	for i, id := range c.Tags {
		rec.Tags[i] = sdbmodels.RecordID{Table: tagsTable, ID: id}
	}
	return rec
}

func (r *companyRecord) document() (models.CompanyDocument, error) {
	doc := models.CompanyDocument{
		Name:      r.Name,
		Addresses: make([]models.AddressDocument, len(r.Addresses)),
		Tags:      make([]int64, len(r.Tags)),
	}
	if r.ID == nil {
		return doc, fmt.Errorf("company record without id")
	}
	var err error
	if doc.ID, err = recordInt(r.ID.ID); err != nil {
		return doc, err
	}
	for i, a := range r.Addresses {
		countryID, err := recordInt(a.Country.ID)
		if err != nil {
			return doc, err
		}
		doc.Addresses[i] = models.AddressDocument{
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			ZipCode:   a.ZipCode,
			CountryID: countryID,
		}
	}
	for i, t := range r.Tags {
		if doc.Tags[i], err = recordInt(t.ID); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

// recordInt converts the id part of an integer record id. CBOR decodes
// non-negative integers as uint64 when the target is an interface.
func recordInt(id any) (int64, error) {
	switch v := id.(type) {
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("record id %d out of range", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("record id %v (%T) is not an integer", id, id)
	}
}
