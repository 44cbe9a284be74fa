package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

const bookingColumns = "id, room, date, start_time, end_time, title, requester, source, status, message, event_link, created_at"

func (s *Store) AddBooking(b models.Booking) error {
	_, err := s.db.Exec(
		"INSERT INTO bookings ("+bookingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.Room, b.Date, b.Start, b.End, b.Title, b.Requester,
		string(b.Source), string(b.Status), b.Message, b.EventLink, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(id string) (models.Booking, error) {
	row := s.db.QueryRow("SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, fmt.Errorf("booking not found: %s", id)
	}
	return b, err
}

func (s *Store) GetBookings(fromDate, toDate string, limit int) ([]models.Booking, error) {
	var (
		where []string
		args  []any
	)
	if fromDate != "" {
		where = append(where, "date >= ?")
		args = append(args, fromDate)
	}
	if toDate != "" {
		where = append(where, "date <= ?")
		args = append(args, toDate)
	}

	query := "SELECT " + bookingColumns + " FROM bookings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (models.Booking, error) {
	var (
		b              models.Booking
		source, status string
	)
	err := row.Scan(&b.ID, &b.Room, &b.Date, &b.Start, &b.End, &b.Title, &b.Requester,
		&source, &status, &b.Message, &b.EventLink, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	b.Source = constants.BookingSource(source)
	b.Status = constants.BookingStatus(status)
	return b, nil
}
