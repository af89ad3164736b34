package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/Domenick1991/flightseats/internal/service/flights"
)

var (
	okColor     = color.New(color.FgGreen)
	windowColor = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
	headerColor = color.New(color.Bold)
)

type cli struct {
	out      io.Writer
	bookings booking.BookingUseCase
	flights  flights.FlightUseCase
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "book":
		return c.book(ctx, args)
	case "cancel":
		return c.withTicket(args, func(ticket string) error { return c.cancel(ctx, ticket) })
	case "query":
		return c.withTicket(args, func(ticket string) error { return c.query(ctx, ticket) })
	case "window-tickets":
		return c.windowTickets(ctx)
	case "summary":
		return c.summary(ctx)
	case "cancellations":
		return c.cancellations(ctx)
	case "reset":
		return c.reset(ctx)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) withTicket(args []string, fn func(string) error) error {
	if len(args) != 1 {
		return errors.New("expected exactly one ticket number, e.g. 123-45678")
	}
	return fn(strings.TrimSpace(args[0]))
}

func (c *cli) book(ctx context.Context, args []string) error {
	flagSet := pflag.NewFlagSet("book", pflag.ContinueOnError)
	count := flagSet.IntP("count", "n", 1, "number of seats to book")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	booked := 0
	var bookErr error
	for i := 0; i < *count; i++ {
		b, err := c.bookings.CreateBooking(ctx)
		if err != nil {
			bookErr = err
			break
		}
		booked++
		c.printBooking("Booked", b.Info())
	}

	if booked > 0 {
		if err := c.bookings.Save(ctx); err != nil {
			return err
		}
	}
	if booked < *count {
		warnColor.Fprintf(c.out, "Booked %d of %d seats.\n", booked, *count)
	}
	return bookErr
}

func (c *cli) cancel(ctx context.Context, ticket string) error {
	b, err := c.bookings.CancelBooking(ctx, ticket)
	if err != nil {
		return err
	}
	okColor.Fprintf(c.out, "Cancelled ticket %s, seat %d is free again.\n", b.TicketNumber, b.SeatNumber)
	return c.bookings.Save(ctx)
}

func (c *cli) query(ctx context.Context, ticket string) error {
	info, err := c.bookings.QueryBooking(ctx, ticket)
	if err != nil {
		return err
	}
	c.printBooking("Found", *info)
	return nil
}

func (c *cli) windowTickets(ctx context.Context) error {
	tickets, err := c.flights.WindowSeatTickets(ctx)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Fprintln(c.out, "No window seats booked.")
		return nil
	}
	headerColor.Fprintln(c.out, "Window seat tickets:")
	for _, t := range tickets {
		fmt.Fprintf(c.out, "  %s\n", t)
	}
	return nil
}

func (c *cli) summary(ctx context.Context) error {
	s, err := c.flights.Summary(ctx)
	if err != nil {
		return err
	}
	headerColor.Fprintf(c.out, "Flight %s\n", s.FlightCode)
	fmt.Fprintf(c.out, "  seats:          %d\n", s.MaxSeats)
	fmt.Fprintf(c.out, "  available:      %d\n", s.AvailableSeats)
	fmt.Fprintf(c.out, "  active:         %d\n", s.ActiveBookings)
	fmt.Fprintf(c.out, "  window queue:   %d\n", len(s.QueuedWindowSeats))
	fmt.Fprintf(c.out, "  cancellations:  %d\n", s.CancellationsTotal)
	return nil
}

func (c *cli) cancellations(ctx context.Context) error {
	log, err := c.flights.Cancellations(ctx)
	if err != nil {
		return err
	}
	if len(log) == 0 {
		fmt.Fprintln(c.out, "No cancellations.")
		return nil
	}
	headerColor.Fprintln(c.out, "Customer  Ticket")
	for _, r := range log {
		fmt.Fprintf(c.out, "%-9d %s\n", r.CustomerID, r.TicketNumber)
	}
	return nil
}

func (c *cli) reset(ctx context.Context) error {
	if err := c.bookings.ResetFlight(ctx); err != nil {
		return err
	}
	if err := c.bookings.Save(ctx); err != nil {
		return err
	}
	warnColor.Fprintln(c.out, "All bookings dropped.")
	return nil
}

func (c *cli) printBooking(verb string, info domain.BookingInfo) {
	okColor.Fprintf(c.out, "%s ticket %s for customer %d, seat %d", verb, info.TicketNumber, info.CustomerID, info.SeatNumber)
	if info.WindowSeat {
		windowColor.Fprint(c.out, " (window)")
	}
	fmt.Fprintln(c.out)
}
