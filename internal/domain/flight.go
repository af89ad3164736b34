package domain

type FlightSummary struct {
	FlightCode         string `json:"flight_code"`
	MaxSeats           int    `json:"max_seats"`
	AvailableSeats     int    `json:"available_seats"`
	ActiveBookings     int    `json:"active_bookings"`
	QueuedWindowSeats  []int  `json:"queued_window_seats"`
	CancellationsTotal int    `json:"cancellations_total"`
}
