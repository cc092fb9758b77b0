package storage

import "github.com/a3tai/policy-tracker/internal/policy"

// Customer is the row layout of the customers table. Dates are canonical
// (2006-01-02) text.
type Customer struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement"`
	FullName      string `gorm:"column:full_name"`
	TCNo          string `gorm:"column:tc_no"`
	Phone         string `gorm:"column:phone"`
	LicenseNo     string `gorm:"column:license_no"`
	Plate         string `gorm:"column:plate"`
	PolicyNo      string `gorm:"column:policy_no"`
	Company       string `gorm:"column:company"`
	InsuranceType string `gorm:"column:insurance_type"`
	PolicyStart   string `gorm:"column:policy_start"`
	PolicyEnd     string `gorm:"column:policy_end"`
}

// TableName keeps the table name stable regardless of gorm naming rules.
func (Customer) TableName() string {
	return "customers"
}

func fromRecord(r policy.Record) Customer {
	return Customer{
		FullName:      r.FullName,
		TCNo:          r.NationalID,
		Phone:         r.Phone,
		LicenseNo:     r.LicenseNo,
		Plate:         r.Plate,
		PolicyNo:      r.PolicyNo,
		Company:       r.Company,
		InsuranceType: r.InsuranceType,
		PolicyStart:   r.PolicyStart,
		PolicyEnd:     r.PolicyEnd,
	}
}

func (c Customer) toStored() policy.Stored {
	return policy.Stored{
		ID: c.ID,
		Record: policy.Record{
			FullName:      c.FullName,
			NationalID:    c.TCNo,
			Phone:         c.Phone,
			LicenseNo:     c.LicenseNo,
			Plate:         c.Plate,
			PolicyNo:      c.PolicyNo,
			Company:       c.Company,
			InsuranceType: c.InsuranceType,
			PolicyStart:   c.PolicyStart,
			PolicyEnd:     c.PolicyEnd,
		},
	}
}

// columns returns every data column, used to replace a row wholesale.
func (c Customer) columns() map[string]any {
	return map[string]any{
		"full_name":      c.FullName,
		"tc_no":          c.TCNo,
		"phone":          c.Phone,
		"license_no":     c.LicenseNo,
		"plate":          c.Plate,
		"policy_no":      c.PolicyNo,
		"company":        c.Company,
		"insurance_type": c.InsuranceType,
		"policy_start":   c.PolicyStart,
		"policy_end":     c.PolicyEnd,
	}
}
