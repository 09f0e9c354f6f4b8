package users

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kaamkrao/kaamkrao/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func testUser(email string) *entities.User {
	return &entities.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		Role:         entities.UserRoleCustomer,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := testUser("test@example.com")
	err := repo.Create(user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(testUser("test@example.com")))

	err := repo.Create(testUser("test@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRepository_GetByID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := testUser("test@example.com")
	require.NoError(t, repo.Create(created))

	user, err := repo.GetByID(created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(9999)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetByEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := testUser("test@example.com")
	require.NoError(t, repo.Create(created))

	user, err := repo.GetByEmail("test@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByEmail("nobody@example.com")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := testUser("test@example.com")
	require.NoError(t, repo.Create(user))

	user.Name = "Renamed"
	require.NoError(t, repo.Update(user))

	reloaded, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := testUser("test@example.com")
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.GetByID(user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(9999)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Count(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	count, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	require.NoError(t, repo.Create(testUser("a@example.com")))
	require.NoError(t, repo.Create(testUser("b@example.com")))

	count, err = repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
