package enums

import "fmt"

// ConsultationStatus tracks the booking lifecycle of a consultation.
type ConsultationStatus string

const (
	ConsultationStatusPending   ConsultationStatus = "pending"
	ConsultationStatusAccepted  ConsultationStatus = "accepted"
	ConsultationStatusCancelled ConsultationStatus = "cancelled"
	ConsultationStatusCompleted ConsultationStatus = "completed"
)

var validConsultationStatuses = []ConsultationStatus{
	ConsultationStatusPending,
	ConsultationStatusAccepted,
	ConsultationStatusCancelled,
	ConsultationStatusCompleted,
}

// String implements fmt.Stringer.
func (c ConsultationStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConsultationStatus.
func (c ConsultationStatus) IsValid() bool {
	for _, candidate := range validConsultationStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConsultationStatus converts raw input into a ConsultationStatus.
func ParseConsultationStatus(value string) (ConsultationStatus, error) {
	for _, candidate := range validConsultationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid consultation status %q", value)
}
