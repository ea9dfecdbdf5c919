package enums

import "fmt"

// BillingFrequency is the cadence a trial converts to once it goes paid.
type BillingFrequency string

const (
	BillingFrequencyWeekly      BillingFrequency = "weekly"
	BillingFrequencyFortnightly BillingFrequency = "fortnightly"
	BillingFrequencyMonthly     BillingFrequency = "monthly"
	BillingFrequencyYearly      BillingFrequency = "yearly"
)

var validBillingFrequencies = []BillingFrequency{
	BillingFrequencyWeekly,
	BillingFrequencyFortnightly,
	BillingFrequencyMonthly,
	BillingFrequencyYearly,
}

// String implements fmt.Stringer.
func (b BillingFrequency) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BillingFrequency.
func (b BillingFrequency) IsValid() bool {
	for _, candidate := range validBillingFrequencies {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBillingFrequency converts raw input into a BillingFrequency, defaulting
// empty input to monthly.
func ParseBillingFrequency(value string) (BillingFrequency, error) {
	if value == "" {
		return BillingFrequencyMonthly, nil
	}
	for _, candidate := range validBillingFrequencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid billing frequency %q", value)
}
