// seatctl works on the bookings and cancellation CSV files directly, without
// a running server. Every command loads both files, applies one operation and,
// when something changed, writes them back. The cancellation log is read back
// too, so a rewrite never drops what earlier runs recorded.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/Domenick1991/flightseats/config"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/registry"
	"github.com/Domenick1991/flightseats/internal/repository"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/Domenick1991/flightseats/internal/service/flights"
)

const usage = `usage: seatctl [flags] <command> [args]

commands:
  book [-n count]     allocate seats for new customers
  cancel <ticket>     cancel the booking whose ticket suffix matches
  query <ticket>      show the booking with this exact ticket number
  window-tickets      list tickets holding a window seat
  summary             show seat availability
  cancellations       print the cancellation log
  reset               drop every active booking

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath    string
	bookingsFile  string
	cancelledFile string
	maxSeats      int
	logLevel      string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("seatctl", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults are used when empty)")
	flagSet.StringVar(&opts.bookingsFile, "bookings", "", "bookings CSV file (overrides config)")
	flagSet.StringVar(&opts.cancelledFile, "cancelled", "", "cancellation log CSV file (overrides config)")
	flagSet.IntVar(&opts.maxSeats, "max-seats", 0, "flight capacity (overrides config)")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	flagSet.Usage = func() {
		fmt.Fprint(stderr, usage)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return errors.New("missing command")
	}

	cfg, err := loadConfig(opts, flagSet)
	if err != nil {
		return err
	}

	cliLog := logger.NewLogger(opts.logLevel)
	defer cliLog.Sync()

	snapshots := repository.NewCSVSnapshotRepository(cfg.Storage.BookingsFile, cfg.Storage.CancelledFile)
	cancelled, err := snapshots.LoadCancelled(ctx)
	if err != nil {
		return fmt.Errorf("load cancellations: %w", err)
	}

	seats := registry.New(cfg.Flight.MaxSeats, registry.WithCancelledLog(cancelled))
	c := &cli{
		out:      stdout,
		bookings: booking.NewBookingService(seats, snapshots, cfg.Flight.Code, cliLog, booking.WithSaveCancelledOnCancel(cfg.Flight.SaveCancelledOnCancel)),
		flights:  flights.NewFlightService(seats, nil, cfg.Flight.Code, cliLog),
	}

	if err := c.bookings.Load(ctx); err != nil {
		return err
	}
	return c.dispatch(ctx, flagSet.Arg(0), flagSet.Args()[1:])
}

func loadConfig(opts options, flagSet *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagSet.Changed("bookings") {
		cfg.Storage.BookingsFile = opts.bookingsFile
	}
	if flagSet.Changed("cancelled") {
		cfg.Storage.CancelledFile = opts.cancelledFile
	}
	if flagSet.Changed("max-seats") {
		if opts.maxSeats < 0 {
			return nil, fmt.Errorf("--max-seats must not be negative, got %d", opts.maxSeats)
		}
		cfg.Flight.MaxSeats = opts.maxSeats
	}
	return cfg, nil
}
