package domain

import "time"

// Resource is a bookable room or piece of equipment with an hourly rate.
type Resource struct {
	ID          int64
	Name        string
	Description string
	HourlyRate  float64
	CreatedAt   time.Time
}
