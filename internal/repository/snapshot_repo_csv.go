package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Domenick1991/flightseats/internal/domain"
)

var (
	bookingsHeader  = []string{"Customer ID", "Ticket Number", "Seat Number"}
	cancelledHeader = []string{"Cancelled Customer ID", "Cancelled Ticket Number"}
)

type CSVSnapshotRepository struct {
	bookingsPath  string
	cancelledPath string
}

func NewCSVSnapshotRepository(bookingsPath, cancelledPath string) *CSVSnapshotRepository {
	return &CSVSnapshotRepository{bookingsPath: bookingsPath, cancelledPath: cancelledPath}
}

func (r *CSVSnapshotRepository) LoadBookings(ctx context.Context) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := readCSV(ctx, r.bookingsPath, func(record []string) error {
		b, err := parseBookingRecord(record)
		if err != nil {
			return err
		}
		rows = append(rows, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadCancelled reads the cancellation log back. The server never calls it:
// its log lives for the process. seatctl runs one command per process and
// seeds the registry with it so earlier cancellations survive the rewrite.
func (r *CSVSnapshotRepository) LoadCancelled(ctx context.Context) ([]domain.CancelledRecord, error) {
	var records []domain.CancelledRecord
	err := readCSV(ctx, r.cancelledPath, func(record []string) error {
		c, err := parseCancelledRecord(record)
		if err != nil {
			return err
		}
		records = append(records, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// readCSV hands every row after the header to fn. A missing file reads as empty.
func readCSV(ctx context.Context, path string, fn func(record []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("%s: %w", path, ErrMissingHeader)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := strconv.Atoi(header[0]); err == nil {
		return fmt.Errorf("%s: %w", path, ErrMissingHeader)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)
		if err := fn(record); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

func parseBookingRecord(record []string) (domain.Booking, error) {
	if len(record) < 3 {
		return domain.Booking{}, fmt.Errorf("expected 3 columns, got %d", len(record))
	}
	customerID, err := strconv.Atoi(record[0])
	if err != nil {
		return domain.Booking{}, fmt.Errorf("customer id %q: %w", record[0], err)
	}
	seat, err := strconv.Atoi(record[2])
	if err != nil {
		return domain.Booking{}, fmt.Errorf("seat number %q: %w", record[2], err)
	}
	return domain.Booking{CustomerID: customerID, TicketNumber: record[1], SeatNumber: seat}, nil
}

func parseCancelledRecord(record []string) (domain.CancelledRecord, error) {
	if len(record) < 2 {
		return domain.CancelledRecord{}, fmt.Errorf("expected 2 columns, got %d", len(record))
	}
	customerID, err := strconv.Atoi(record[0])
	if err != nil {
		return domain.CancelledRecord{}, fmt.Errorf("customer id %q: %w", record[0], err)
	}
	return domain.CancelledRecord{CustomerID: customerID, TicketNumber: record[1]}, nil
}

func (r *CSVSnapshotRepository) SaveBookings(ctx context.Context, rows []domain.Booking) error {
	return writeCSV(ctx, r.bookingsPath, bookingRecords(rows))
}

// WriteBookingsCSV encodes rows in the bookings file layout, header included.
func WriteBookingsCSV(w io.Writer, rows []domain.Booking) error {
	cw := csv.NewWriter(w)
	return cw.WriteAll(bookingRecords(rows))
}

func bookingRecords(rows []domain.Booking) [][]string {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, bookingsHeader)
	for _, b := range rows {
		records = append(records, []string{strconv.Itoa(b.CustomerID), b.TicketNumber, strconv.Itoa(b.SeatNumber)})
	}
	return records
}

func (r *CSVSnapshotRepository) SaveCancelled(ctx context.Context, log []domain.CancelledRecord) error {
	records := make([][]string, 0, len(log)+1)
	records = append(records, cancelledHeader)
	for _, c := range log {
		records = append(records, []string{strconv.Itoa(c.CustomerID), c.TicketNumber})
	}
	return writeCSV(ctx, r.cancelledPath, records)
}

// writeCSV replaces path through a temp file in the same directory so a
// failed write never leaves a truncated snapshot behind. The replacement keeps
// the mode of the file it replaces, 0644 for a new one.
func writeCSV(ctx context.Context, path string, records [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

var _ SnapshotRepository = (*CSVSnapshotRepository)(nil)
