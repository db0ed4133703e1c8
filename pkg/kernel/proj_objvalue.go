package kernel

type Email string

// Currency is an ISO 4217 code
type Currency string

const (
	CurrencyVND Currency = "VND"
	CurrencyUSD Currency = "USD"
)

// DefaultCurrency is used when a job does not state one
const DefaultCurrency = CurrencyVND

func (c Currency) IsValid() bool {
	return c == CurrencyVND || c == CurrencyUSD
}

// SalaryRange is an optional monthly salary band
type SalaryRange struct {
	Min *int64 `json:"salary_min,omitempty"`
	Max *int64 `json:"salary_max,omitempty"`
}

// IsValid holds when both bounds are non-negative and Min <= Max when both are set
func (s SalaryRange) IsValid() bool {
	if s.Min != nil && *s.Min < 0 {
		return false
	}
	if s.Max != nil && *s.Max < 0 {
		return false
	}
	if s.Min != nil && s.Max != nil {
		return *s.Min <= *s.Max
	}
	return true
}

// IsNegotiable reports whether no bound was published
func (s SalaryRange) IsNegotiable() bool {
	return s.Min == nil && s.Max == nil
}
