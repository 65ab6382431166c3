package billing

// Calculator holds the venue's rate table. All methods are pure.
type Calculator struct {
	RatePerMinute  float64
	StopCheckHours int
	StopCheckMax   float64
}

// BookingCharge is one active booking's contribution to a stay.
type BookingCharge struct {
	Minutes    float64
	HourlyRate float64
}

// SessionCost charges attendance time at the per-minute rate.
func (c Calculator) SessionCost(minutes float64) float64 {
	return minutes * c.RatePerMinute
}

// BookingCost charges a booking's duration at the resource's hourly rate.
func (c Calculator) BookingCost(minutes, hourlyRate float64) float64 {
	return minutes / 60 * hourlyRate
}

// TotalStayCost sums the session cost and every booking's cost, then applies
// the stop-check: once total billable minutes pass the threshold the whole
// sum is discarded and replaced by the maximum charge. The cap is not
// applied per component.
func (c Calculator) TotalStayCost(sessionMinutes float64, bookings []BookingCharge) float64 {
	total := c.SessionCost(sessionMinutes)
	billableMinutes := sessionMinutes
	for _, b := range bookings {
		total += c.BookingCost(b.Minutes, b.HourlyRate)
		billableMinutes += b.Minutes
	}

	if billableMinutes > float64(c.StopCheckHours*60) {
		return c.StopCheckMax
	}
	return total
}
