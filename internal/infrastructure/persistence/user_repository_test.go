package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shared"
)

// newMockUserRepository creates a GormUserRepository with a mocked SQL connection
func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(gormDB), mock, mockDB
}

func TestGormUserRepository_FindByID(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "email", "phone", "password_hash"}).
			AddRow(userID, now, now, "Alice", "alice@example.com", "+1555", "hash")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnRows(rows)

		user, err := repo.FindByID(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), userID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	t.Run("rejects empty email without touching the database", func(t *testing.T) {
		repo, _, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		_, err := repo.FindByEmail(context.Background(), "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})

	t.Run("lowercases the lookup", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "email", "phone", "password_hash"}).
			AddRow(userID, now, now, "Alice", "alice@example.com", "", "hash")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("alice@example.com", 1).
			WillReturnRows(rows)

		user, err := repo.FindByEmail(context.Background(), "Alice@Example.com")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindProfiles(t *testing.T) {
	t.Run("empty input short-circuits", func(t *testing.T) {
		repo, _, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		profiles, err := repo.FindProfiles(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("maps found users and skips unknown ids", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		knownID := uuid.New()
		unknownID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "email", "phone", "password_hash"}).
			AddRow(knownID, now, now, "Alice", "alice@example.com", "+1555", "hash")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id IN \(\$1,\$2\)`).
			WithArgs(knownID, unknownID).
			WillReturnRows(rows)

		profiles, err := repo.FindProfiles(context.Background(), []uuid.UUID{knownID, unknownID})

		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "Alice", profiles[knownID].Name)
		// Phone wins over email as public contact
		assert.Equal(t, "+1555", profiles[knownID].Contact)
		_, ok := profiles[unknownID]
		assert.False(t, ok)
	})
}
