// Package policy holds the customer policy record shared by extraction,
// storage and presentation.
package policy

// Insurance types recognised by the extractor. Values are what gets stored.
const (
	TypeKasko   = "Kasko"
	TypeTraffic = "Trafik Sigortası"
	TypeDASK    = "DASK"
	TypeOther   = "Diğer"
)

// CompanyOther is the open fallback of the company list.
const CompanyOther = "Diğer"

// FieldCount is the number of positional fields in a Record.
const FieldCount = 10

// Column headings in positional order.
var FieldLabels = [FieldCount]string{
	"Ad Soyad", "TC", "Tel", "Ruhsat", "Plaka",
	"Poliçe No", "Şirket", "Sigorta Türü", "Başlangıç", "Bitiş",
}

// Record is one customer policy. Whether the dates are in canonical or
// display form depends on where the record is: extraction output and
// listings carry display dates, the store carries canonical dates.
type Record struct {
	FullName      string `json:"full_name"`
	NationalID    string `json:"national_id"`
	Phone         string `json:"phone"`
	LicenseNo     string `json:"license_no"`
	Plate         string `json:"plate"`
	PolicyNo      string `json:"policy_no"`
	Company       string `json:"company"`
	InsuranceType string `json:"insurance_type"`
	PolicyStart   string `json:"policy_start"`
	PolicyEnd     string `json:"policy_end"`
}

// Stored is a Record with its store identifier.
type Stored struct {
	ID uint `json:"id"`
	Record
}

// Fields returns the record in positional order, matching FieldLabels.
func (r Record) Fields() [FieldCount]string {
	return [FieldCount]string{
		r.FullName, r.NationalID, r.Phone, r.LicenseNo, r.Plate,
		r.PolicyNo, r.Company, r.InsuranceType, r.PolicyStart, r.PolicyEnd,
	}
}

// FromFields builds a Record from positional values. Missing trailing
// values are left empty.
func FromFields(values []string) Record {
	var f [FieldCount]string
	copy(f[:], values)
	return Record{
		FullName:      f[0],
		NationalID:    f[1],
		Phone:         f[2],
		LicenseNo:     f[3],
		Plate:         f[4],
		PolicyNo:      f[5],
		Company:       f[6],
		InsuranceType: f[7],
		PolicyStart:   f[8],
		PolicyEnd:     f[9],
	}
}

// MapDates returns a copy with fn applied to both policy dates.
func (r Record) MapDates(fn func(string) string) Record {
	r.PolicyStart = fn(r.PolicyStart)
	r.PolicyEnd = fn(r.PolicyEnd)
	return r
}
