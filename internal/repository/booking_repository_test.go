package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

func bookingColumns() []string {
	return []string{
		"id", "professor_id", "parent_id", "child_name", "subject_id", "level_id",
		"status", "payment_status", "total_price", "scheduled_at", "created_at", "updated_at",
	}
}

func bookingRow(id string, status models.BookingStatus) []driver.Value {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "prof-1", "parent-1", "Yasmine", "subj-1", "lvl-1",
		string(status), string(models.BookingPaymentPending), 80.0, now, now, now,
	}
}

func TestBookingListDefaultsPagination(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows(bookingColumns()).AddRow(bookingRow("b1", models.BookingPending)...)
	mock.ExpectQuery(`FROM bookings b WHERE 1=1 ORDER BY b\.created_at DESC LIMIT 20 OFFSET 0`).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings b WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListFiltersByStatusAndProfessor(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows(bookingColumns()).AddRow(bookingRow("b2", models.BookingConfirmed)...)
	mock.ExpectQuery(`WHERE 1=1 AND b\.professor_id = \$1 AND b\.status = \$2 ORDER BY`).
		WithArgs("prof-1", "confirmed").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings b WHERE 1=1 AND b\.professor_id = \$1 AND b\.status = \$2`).
		WithArgs("prof-1", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{
		ProfessorID: "prof-1",
		Status:      string(models.BookingConfirmed),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.BookingConfirmed, bookings[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListRejectsUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`ORDER BY b\.created_at DESC LIMIT 20 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings b`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.BookingFilter{SortBy: "child_name; DROP TABLE bookings"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateAssignsIDAndTimestamps(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(`INSERT INTO bookings \(id, professor_id, parent_id, child_name, subject_id, level_id, status, payment_status, total_price, scheduled_at, created_at, updated_at\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking := &models.Booking{
		ProfessorID:   "prof-1",
		ParentID:      "parent-1",
		ChildName:     "Yasmine",
		SubjectID:     "subj-1",
		LevelID:       "lvl-1",
		Status:        models.BookingPending,
		PaymentStatus: models.BookingPaymentPending,
		TotalPrice:    80,
	}
	require.NoError(t, repo.Create(context.Background(), booking))
	assert.NotEmpty(t, booking.ID)
	assert.False(t, booking.CreatedAt.IsZero())
	assert.False(t, booking.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatus(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(`UPDATE bookings SET status = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs("b1", "confirmed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "b1", models.BookingConfirmed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdatePaymentStatus(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(`UPDATE bookings SET payment_status = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs("b1", "paid", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePaymentStatus(context.Background(), "b1", models.BookingPaymentPaid))
	assert.NoError(t, mock.ExpectationsWereMet())
}
