package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flashlearn/mooc-service/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMoocTestRepository creates a mooc repository with a mock database
func setupMoocTestRepository(t *testing.T) (*moocRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewMoocRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func moocRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "owner_id", "class_id", "is_paid", "price", "currency", "public_status", "created_at", "updated_at"})
}

func TestMoocRepository_GetByID(t *testing.T) {
	now := time.Now()
	query := regexp.QuoteMeta("SELECT " + moocColumns + " FROM moocs WHERE id = ? LIMIT 1")

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		check         func(t *testing.T, mooc *models.Mooc)
	}{
		{
			name: "success with class",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(1).
					WillReturnRows(moocRows().AddRow(1, "Japanese N5", "basics", 10, 3, true, 9.99, "USD", 2, now, now))
			},
			check: func(t *testing.T, mooc *models.Mooc) {
				require.NotNil(t, mooc.ClassID)
				assert.Equal(t, 3, *mooc.ClassID)
				assert.True(t, mooc.IsPaid)
				assert.Equal(t, 9.99, mooc.Price)
				assert.Equal(t, models.PublicStatusPublic, mooc.PublicStatus)
			},
		},
		{
			name: "success without class",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(1).
					WillReturnRows(moocRows().AddRow(1, "Japanese N5", "", 10, nil, false, 0.0, "", 0, now, now))
			},
			check: func(t *testing.T, mooc *models.Mooc) {
				assert.Nil(t, mooc.ClassID)
				assert.Equal(t, 10, mooc.OwnerID)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(1).WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMoocTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			mooc, err := repo.GetByID(context.Background(), 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, mooc)
			} else {
				require.NoError(t, err)
				tt.check(t, mooc)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMoocRepository_GetAll(t *testing.T) {
	now := time.Now()
	classID := 3

	tests := []struct {
		name          string
		classID       *int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "all moocs",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT " + moocColumns + " FROM moocs ORDER BY id")).
					WillReturnRows(moocRows().
						AddRow(1, "A", "", 10, nil, false, 0.0, "", 0, now, now).
						AddRow(2, "B", "", 11, 3, false, 0.0, "", 2, now, now))
			},
			expectedCount: 2,
		},
		{
			name:    "filtered by class",
			classID: &classID,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT " + moocColumns + " FROM moocs WHERE class_id = ? ORDER BY id")).
					WithArgs(3).
					WillReturnRows(moocRows().AddRow(2, "B", "", 11, 3, false, 0.0, "", 2, now, now))
			},
			expectedCount: 1,
		},
		{
			name: "empty result",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM moocs`).WillReturnRows(moocRows())
			},
			expectedCount: 0,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM moocs`).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name: "scan error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM moocs`).
					WillReturnRows(moocRows().AddRow("invalid", "A", "", 10, nil, false, 0.0, "", 0, now, now))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMoocTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			moocs, err := repo.GetAll(context.Background(), tt.classID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, moocs)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, moocs)
				assert.Len(t, moocs, tt.expectedCount)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMoocRepository_Create(t *testing.T) {
	classID := 3

	repo, mock, cleanup := setupMoocTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO moocs`).
		WithArgs("Japanese N5", "basics", 10, 3, true, 5.0, "EUR", 2).
		WillReturnResult(sqlmock.NewResult(42, 1))

	mooc := &models.Mooc{
		Title:        "Japanese N5",
		Description:  "basics",
		OwnerID:      10,
		ClassID:      &classID,
		IsPaid:       true,
		Price:        5,
		Currency:     "EUR",
		PublicStatus: models.PublicStatusPublic,
	}
	err := repo.Create(context.Background(), mooc)

	assert.NoError(t, err)
	assert.Equal(t, 42, mooc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoocRepository_Update(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE moocs SET title = \?, description = \?, class_id = \?`).
					WithArgs("T", "D", nil, false, 0.0, "", 0, 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE moocs`).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMoocTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			err := repo.Update(context.Background(), &models.Mooc{ID: 4, Title: "T", Description: "D"})

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMoocRepository_GetDecks(t *testing.T) {
	now := time.Now()
	columns := []string{"deck_id", "deck_order", "owner_id", "title", "description", "public_status", "points_required", "card_count", "created_at", "updated_at"}

	repo, mock, cleanup := setupMoocTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`FROM mooc_decks md JOIN decks d ON d.id = md.deck_id WHERE md.mooc_id = \? ORDER BY md.deck_order`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(5, 1, 10, "D1", "", 0, 0, 2, now, now).
			AddRow(6, 2, 10, "D2", "", 0, 100, 0, now, now))

	decks, err := repo.GetDecks(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, 5, decks[0].DeckID)
	assert.Equal(t, 5, decks[0].Deck.ID)
	assert.Equal(t, 2, decks[1].Order)
	assert.Equal(t, 100, decks[1].Deck.PointsRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoocRepository_ReplaceDecks(t *testing.T) {
	tests := []struct {
		name          string
		decks         []models.MoocDeck
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		wrapsSentinel error
	}{
		{
			name:  "replace with two decks",
			decks: []models.MoocDeck{{DeckID: 5, Order: 1}, {DeckID: 6, Order: 2}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mooc_decks WHERE mooc_id = ?")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mooc_decks (mooc_id, deck_id, deck_order) VALUES (?, ?, ?), (?, ?, ?)")).
					WithArgs(1, 5, 1, 1, 6, 2).
					WillReturnResult(sqlmock.NewResult(0, 2))
			},
		},
		{
			name: "clear only",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM mooc_decks`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 2))
			},
		},
		{
			name:  "insert error",
			decks: []models.MoocDeck{{DeckID: 5, Order: 1}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM mooc_decks`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`INSERT INTO mooc_decks`).WillReturnError(errors.New("duplicate entry"))
			},
			expectedError: true,
		},
		{
			name:  "deck linked to another mooc",
			decks: []models.MoocDeck{{DeckID: 5, Order: 1}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM mooc_decks`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`INSERT INTO mooc_decks`).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5' for key 'uq_mooc_decks_deck'"})
			},
			expectedError: true,
			wrapsSentinel: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMoocTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			err := repo.ReplaceDecks(context.Background(), 1, tt.decks)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wrapsSentinel != nil {
				assert.ErrorIs(t, err, tt.wrapsSentinel)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMoocRepository_GetMoocIDByDeck(t *testing.T) {
	query := regexp.QuoteMeta("SELECT mooc_id FROM mooc_decks WHERE deck_id = ? LIMIT 1")

	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedMoocID int
		expectedError  error
		errorContains  string
	}{
		{
			name: "linked",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{"mooc_id"}).AddRow(3))
			},
			expectedMoocID: 3,
		},
		{
			name: "not linked",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(5).WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(5).WillReturnError(errors.New("database error"))
			},
			errorContains: "failed to get mooc of deck",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMoocTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			moocID, err := repo.GetMoocIDByDeck(context.Background(), 5)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.errorContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expectedMoocID, moocID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMoocRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		errorContains string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM moocs WHERE id = ?")).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM moocs`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM moocs`).WithArgs(1).WillReturnError(errors.New("database error"))
			},
			errorContains: "failed to delete mooc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMoocTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			err := repo.Delete(context.Background(), 1)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.errorContains != "":
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
