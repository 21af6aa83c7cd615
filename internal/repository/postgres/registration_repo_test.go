package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"collegeevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO registrations \(event_id, student_name, student_email\)`).
			WithArgs("ev-1", "Asha", "asha@college.edu").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("reg-1", created))

		reg := domain.NewRegistration("ev-1", "Asha", "asha@college.edu")
		require.NoError(t, NewRegistrationRepository(db).Create(ctx, reg))
		require.Equal(t, "reg-1", reg.ID)
		require.Equal(t, created, reg.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email inserts a second row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for _, id := range []string{"reg-1", "reg-2"} {
			mock.ExpectQuery(`INSERT INTO registrations`).
				WithArgs("ev-1", "Asha", "asha@college.edu").
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, created))
		}

		repo := NewRegistrationRepository(db)
		first := domain.NewRegistration("ev-1", "Asha", "asha@college.edu")
		second := domain.NewRegistration("ev-1", "Asha", "asha@college.edu")
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))
		require.NotEqual(t, first.ID, second.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown or malformed event maps to not found", func(t *testing.T) {
		for _, code := range []pq.ErrorCode{"23503", "22P02"} {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)

			mock.ExpectQuery(`INSERT INTO registrations`).WillReturnError(&pq.Error{Code: code})

			err = NewRegistrationRepository(db).Create(ctx, domain.NewRegistration("missing", "A", "a@b.co"))
			require.ErrorIs(t, err, domain.ErrNotFound, string(code))
			require.NoError(t, mock.ExpectationsWereMet())
			db.Close()
		}
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO registrations`).WillReturnError(sql.ErrConnDone)

		err = NewRegistrationRepository(db).Create(ctx, domain.NewRegistration("ev-1", "A", "a@b.c"))
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}
