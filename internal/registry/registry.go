// Package registry holds the seat inventory of a single flight.
//
// All state lives behind one mutex: capacity, active bookings, the queue of
// window seats waiting to be handed out and the cancellation log. The
// registry never logs and never does I/O; persistence goes through
// ExportSnapshot and ImportSnapshot.
package registry

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/Domenick1991/flightseats/internal/domain"
)

const DefaultMaxSeats = 100

// maxDraws bounds rejection sampling before falling back to picking among the free values.
const maxDraws = 64

// Source yields uniformly distributed ints in [0, n).
type Source interface {
	IntN(n int) int
}

type Option func(*Registry)

// WithSource replaces the random source used for customer IDs and ticket suffixes.
func WithSource(src Source) Option {
	return func(r *Registry) {
		r.rnd = src
	}
}

// WithCancelledLog starts the registry with records already in its
// cancellation log. ImportSnapshot never touches the log; callers that keep
// the log on disk between processes seed it here.
func WithCancelledLog(records []domain.CancelledRecord) Option {
	return func(r *Registry) {
		r.cancelled = append(r.cancelled[:0:0], records...)
	}
}

type Registry struct {
	mu sync.Mutex

	maxSeats       int
	availableSeats int
	bookings       map[int]domain.Booking
	// order keeps customer IDs in insertion order; scans and snapshots follow it.
	order       []int
	windowQueue []int
	cancelled   []domain.CancelledRecord
	rnd         Source
}

func New(maxSeats int, opts ...Option) *Registry {
	r := &Registry{
		maxSeats: maxSeats,
		bookings: make(map[int]domain.Booking),
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetLocked()
	return r
}

func (r *Registry) resetLocked() {
	r.availableSeats = r.maxSeats
	r.bookings = make(map[int]domain.Booking)
	r.order = nil
	r.windowQueue = initialWindowSeats(r.maxSeats)
}

// initialWindowSeats lists 3n-2 for n = 1..maxSeats/3.
func initialWindowSeats(maxSeats int) []int {
	seats := make([]int, 0, maxSeats/3)
	for n := 1; n <= maxSeats/3; n++ {
		seats = append(seats, 3*n-2)
	}
	return seats
}

// Allocate books the next seat for a freshly generated customer.
//
// Window seats are handed out first, front of the queue first. Once the queue
// is empty the seat number is the remaining capacity before the decrement, so
// after cancellations it may repeat a number already held by another booking.
func (r *Registry) Allocate() (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.availableSeats <= 0 {
		return domain.Booking{}, domain.ErrUnavailable
	}

	customerID, err := r.newCustomerID()
	if err != nil {
		return domain.Booking{}, err
	}
	ticket := r.newTicketNumber(customerID)

	var seat int
	if len(r.windowQueue) > 0 {
		seat = r.windowQueue[0]
		r.windowQueue = r.windowQueue[1:]
	} else {
		seat = r.availableSeats
	}

	b := domain.Booking{CustomerID: customerID, TicketNumber: ticket, SeatNumber: seat}
	r.insertLocked(b)
	r.availableSeats--
	return b, nil
}

func (r *Registry) newCustomerID() (int, error) {
	if len(r.bookings) >= domain.CustomerIDSpace {
		return 0, domain.ErrIdentifierSpaceExhausted
	}
	for i := 0; i < maxDraws; i++ {
		id := domain.MinCustomerID + r.rnd.IntN(domain.CustomerIDSpace)
		if _, taken := r.bookings[id]; !taken {
			return id, nil
		}
	}

	free := make([]int, 0, domain.CustomerIDSpace-len(r.bookings))
	for id := domain.MinCustomerID; id <= domain.MaxCustomerID; id++ {
		if _, taken := r.bookings[id]; !taken {
			free = append(free, id)
		}
	}
	return free[r.rnd.IntN(len(free))], nil
}

func (r *Registry) newTicketNumber(customerID int) string {
	used := make(map[string]struct{}, len(r.bookings))
	for _, b := range r.bookings {
		used[b.TicketNumber] = struct{}{}
	}

	const span = domain.MaxTicketSuffix - domain.MinTicketSuffix + 1
	for i := 0; i < maxDraws; i++ {
		ticket := domain.FormatTicketNumber(customerID, domain.MinTicketSuffix+r.rnd.IntN(span))
		if _, taken := used[ticket]; !taken {
			return ticket
		}
	}

	// At most 900 tickets are active, so a free suffix always exists.
	start := r.rnd.IntN(span)
	for i := 0; i < span; i++ {
		ticket := domain.FormatTicketNumber(customerID, domain.MinTicketSuffix+(start+i)%span)
		if _, taken := used[ticket]; !taken {
			return ticket
		}
	}
	return ""
}

func (r *Registry) insertLocked(b domain.Booking) {
	if _, exists := r.bookings[b.CustomerID]; !exists {
		r.order = append(r.order, b.CustomerID)
	}
	r.bookings[b.CustomerID] = b
}

func (r *Registry) removeLocked(customerID int) {
	delete(r.bookings, customerID)
	if i := slices.Index(r.order, customerID); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// Cancel removes the first booking whose ticket suffix equals the suffix of
// ticket. The customer prefix is not compared, so 111-12345 cancels a booking
// issued as 222-12345. The log records the ticket text as supplied.
func (r *Registry) Cancel(ticket string) (domain.Booking, error) {
	if !domain.ValidTicketNumber(ticket) {
		return domain.Booking{}, domain.ErrInvalidFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.matchBySuffix(ticket)
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}

	r.removeLocked(b.CustomerID)
	r.availableSeats++
	if domain.IsWindowSeat(b.SeatNumber) {
		r.windowQueue = append(r.windowQueue, b.SeatNumber)
	}
	r.cancelled = append(r.cancelled, domain.CancelledRecord{CustomerID: b.CustomerID, TicketNumber: ticket})
	return b, nil
}

// Query returns the booking stored under exactly ticket.
func (r *Registry) Query(ticket string) (domain.BookingInfo, error) {
	if !domain.ValidTicketNumber(ticket) {
		return domain.BookingInfo{}, domain.ErrInvalidFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.matchByExactString(ticket)
	if !ok {
		return domain.BookingInfo{}, domain.ErrNotFound
	}
	return b.Info(), nil
}

func (r *Registry) matchBySuffix(ticket string) (domain.Booking, bool) {
	want, _ := domain.TicketSuffix(ticket)
	for _, id := range r.order {
		b := r.bookings[id]
		if got, ok := domain.TicketSuffix(b.TicketNumber); ok && got == want {
			return b, true
		}
	}
	return domain.Booking{}, false
}

func (r *Registry) matchByExactString(ticket string) (domain.Booking, bool) {
	for _, id := range r.order {
		if b := r.bookings[id]; b.TicketNumber == ticket {
			return b, true
		}
	}
	return domain.Booking{}, false
}

// ExportSnapshot returns the active bookings in insertion order.
func (r *Registry) ExportSnapshot() []domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]domain.Booking, 0, len(r.order))
	for _, id := range r.order {
		rows = append(rows, r.bookings[id])
	}
	return rows
}

// Snapshot returns the active bookings and the cancellation log as they
// stood at one instant.
func (r *Registry) Snapshot() ([]domain.Booking, []domain.CancelledRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]domain.Booking, 0, len(r.order))
	for _, id := range r.order {
		rows = append(rows, r.bookings[id])
	}
	return rows, append(make([]domain.CancelledRecord, 0, len(r.cancelled)), r.cancelled...)
}

// ImportSnapshot trusts its rows: nothing is re-validated, every row costs one
// seat, and window seats still waiting in the queue are taken out of it.
func (r *Registry) ImportSnapshot(rows []domain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range rows {
		r.insertLocked(b)
		r.availableSeats--
		if domain.IsWindowSeat(b.SeatNumber) {
			if i := slices.Index(r.windowQueue, b.SeatNumber); i >= 0 {
				r.windowQueue = slices.Delete(r.windowQueue, i, i+1)
			}
		}
	}
}

// CancelledLog returns a copy of every cancellation recorded so far.
func (r *Registry) CancelledLog() []domain.CancelledRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(make([]domain.CancelledRecord, 0, len(r.cancelled)), r.cancelled...)
}

// WindowSeatTickets lists ticket numbers of active bookings sitting on a window seat.
func (r *Registry) WindowSeatTickets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tickets := make([]string, 0)
	for _, id := range r.order {
		if b := r.bookings[id]; domain.IsWindowSeat(b.SeatNumber) {
			tickets = append(tickets, b.TicketNumber)
		}
	}
	return tickets
}

// Reset drops every active booking and restores full capacity. The
// cancellation log is kept.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *Registry) Summary() domain.FlightSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.FlightSummary{
		MaxSeats:           r.maxSeats,
		AvailableSeats:     r.availableSeats,
		ActiveBookings:     len(r.bookings),
		QueuedWindowSeats:  append(make([]int, 0, len(r.windowQueue)), r.windowQueue...),
		CancellationsTotal: len(r.cancelled),
	}
}

func (r *Registry) AvailableSeats() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availableSeats
}
