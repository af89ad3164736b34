package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinCustomerID = 100
	MaxCustomerID = 999

	MinTicketSuffix = 10000
	MaxTicketSuffix = 99999
)

// CustomerIDSpace is the number of distinct customer identifiers a flight can hand out.
const CustomerIDSpace = MaxCustomerID - MinCustomerID + 1

var ticketFormat = regexp.MustCompile(`^\d{3}-\d{5}$`)

type Booking struct {
	CustomerID   int    `json:"customer_id"`
	TicketNumber string `json:"ticket_number"`
	SeatNumber   int    `json:"seat_number"`
}

// CancelledRecord keeps the ticket text exactly as the caller supplied it.
type CancelledRecord struct {
	CustomerID   int    `json:"customer_id"`
	TicketNumber string `json:"ticket_number"`
}

type BookingInfo struct {
	CustomerID   int    `json:"customer_id"`
	TicketNumber string `json:"ticket_number"`
	SeatNumber   int    `json:"seat_number"`
	WindowSeat   bool   `json:"window_seat"`
}

func (b Booking) Info() BookingInfo {
	return BookingInfo{
		CustomerID:   b.CustomerID,
		TicketNumber: b.TicketNumber,
		SeatNumber:   b.SeatNumber,
		WindowSeat:   IsWindowSeat(b.SeatNumber),
	}
}

// IsWindowSeat reports whether seat is the first of its row of three.
func IsWindowSeat(seat int) bool {
	return (seat-1)%3 == 0
}

func FormatTicketNumber(customerID, suffix int) string {
	return fmt.Sprintf("%d-%05d", customerID, suffix)
}

func ValidTicketNumber(ticket string) bool {
	return ticketFormat.MatchString(ticket)
}

// TicketSuffix returns the part after the first hyphen.
func TicketSuffix(ticket string) (string, bool) {
	_, suffix, ok := strings.Cut(ticket, "-")
	return suffix, ok
}
