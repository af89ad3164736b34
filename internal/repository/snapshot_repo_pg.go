package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS flight_bookings (
    flight_code   TEXT    NOT NULL,
    seq           INTEGER NOT NULL,
    customer_id   INTEGER NOT NULL,
    ticket_number TEXT    NOT NULL,
    seat_number   INTEGER NOT NULL,
    PRIMARY KEY (flight_code, seq)
);
CREATE TABLE IF NOT EXISTS flight_cancellations (
    flight_code   TEXT    NOT NULL,
    seq           INTEGER NOT NULL,
    customer_id   INTEGER NOT NULL,
    ticket_number TEXT    NOT NULL,
    PRIMARY KEY (flight_code, seq)
);`

// PGSnapshotRepository mirrors the CSV snapshot pair into two tables keyed by flight code.
// Each save replaces the flight's rows inside one transaction.
type PGSnapshotRepository struct {
	db         *pgxpool.Pool
	flightCode string
}

func NewPGSnapshotRepository(db *pgxpool.Pool, flightCode string) *PGSnapshotRepository {
	return &PGSnapshotRepository{db: db, flightCode: flightCode}
}

func (r *PGSnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create snapshot tables: %w", err)
	}
	return nil
}

func (r *PGSnapshotRepository) LoadBookings(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT customer_id, ticket_number, seat_number FROM flight_bookings WHERE flight_code=$1 ORDER BY seq`, r.flightCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.CustomerID, &b.TicketNumber, &b.SeatNumber); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGSnapshotRepository) SaveBookings(ctx context.Context, bookings []domain.Booking) error {
	source := make([][]any, 0, len(bookings))
	for i, b := range bookings {
		source = append(source, []any{r.flightCode, i, b.CustomerID, b.TicketNumber, b.SeatNumber})
	}
	return r.replace(ctx, "flight_bookings",
		[]string{"flight_code", "seq", "customer_id", "ticket_number", "seat_number"}, source)
}

func (r *PGSnapshotRepository) SaveCancelled(ctx context.Context, log []domain.CancelledRecord) error {
	source := make([][]any, 0, len(log))
	for i, c := range log {
		source = append(source, []any{r.flightCode, i, c.CustomerID, c.TicketNumber})
	}
	return r.replace(ctx, "flight_cancellations",
		[]string{"flight_code", "seq", "customer_id", "ticket_number"}, source)
}

func (r *PGSnapshotRepository) replace(ctx context.Context, table string, columns []string, source [][]any) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE flight_code=$1`, r.flightCode); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if len(source) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(source)); err != nil {
			return fmt.Errorf("copy into %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}

var _ SnapshotRepository = (*PGSnapshotRepository)(nil)
