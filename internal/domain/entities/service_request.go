package entities

import (
	"time"
)

// Wire formats for the booking date and time.
const (
	ServiceDateLayout = "2006-01-02"
	ServiceTimeLayout = "15:04"
)

// ServiceRequestStatus represents the status of a service request
type ServiceRequestStatus string

const (
	ServiceRequestStatusPending   ServiceRequestStatus = "pending"
	ServiceRequestStatusAccepted  ServiceRequestStatus = "accepted"
	ServiceRequestStatusRejected  ServiceRequestStatus = "rejected"
	ServiceRequestStatusCompleted ServiceRequestStatus = "completed"
)

// IsValid reports whether s is one of the known statuses.
func (s ServiceRequestStatus) IsValid() bool {
	switch s {
	case ServiceRequestStatusPending, ServiceRequestStatusAccepted,
		ServiceRequestStatusRejected, ServiceRequestStatusCompleted:
		return true
	}
	return false
}

// ServiceRequest is a client's booking request against one professional.
// ServiceDate carries only a calendar date and ServiceTime only a wall-clock time.
type ServiceRequest struct {
	ID               int64                `db:"id"`
	ClientName       string               `db:"client_name"`
	ClientPhone      string               `db:"client_phone"`
	ProfessionalID   int64                `db:"professional_id"`
	ProfessionalName *string              `db:"professional_name"`
	ServiceDate      time.Time            `db:"service_date"`
	ServiceTime      time.Time            `db:"service_time"`
	Address          string               `db:"address"`
	Description      string               `db:"description"`
	EstimatedBudget  *string              `db:"estimated_budget"`
	Status           ServiceRequestStatus `db:"status"`
	CreatedAt        time.Time            `db:"created_at"`
	UpdatedAt        time.Time            `db:"updated_at"`
}

// ParseServiceDate parses a YYYY-MM-DD date.
func ParseServiceDate(value string) (time.Time, error) {
	return time.Parse(ServiceDateLayout, value)
}

// ParseServiceTime parses a 24-hour HH:MM time.
func ParseServiceTime(value string) (time.Time, error) {
	return time.Parse(ServiceTimeLayout, value)
}
