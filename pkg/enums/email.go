package enums

import "fmt"

// EmailType categorizes the transactional emails the system sends.
type EmailType string

const (
	EmailTypeWelcome       EmailType = "welcome"
	EmailTypeTrialReminder EmailType = "trial_reminder"
)

var validEmailTypes = []EmailType{
	EmailTypeWelcome,
	EmailTypeTrialReminder,
}

// String implements fmt.Stringer.
func (e EmailType) String() string {
	return string(e)
}

// IsValid reports whether the value is known.
func (e EmailType) IsValid() bool {
	for _, candidate := range validEmailTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmailType converts raw input into an EmailType.
func ParseEmailType(value string) (EmailType, error) {
	for _, candidate := range validEmailTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid email type %q", value)
}

// EmailStatus tracks the delivery state of a logged email attempt.
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

var validEmailStatuses = []EmailStatus{
	EmailStatusPending,
	EmailStatusSent,
	EmailStatusFailed,
}

// String implements fmt.Stringer.
func (e EmailStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is known.
func (e EmailStatus) IsValid() bool {
	for _, candidate := range validEmailStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmailStatus converts raw input into an EmailStatus.
func ParseEmailStatus(value string) (EmailStatus, error) {
	for _, candidate := range validEmailStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid email status %q", value)
}
