package repository

import (
	"regexp"
	"testing"

	"blog_social/internal/domain/user/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepository(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewUserRepository(gormDB), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "alice", "hash", 1, "", "", "", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user := &model.User{Username: "alice", Password: "hash", Role: model.RoleUser}
	err := repo.Create(user)

	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		rows := sqlmock.NewRows([]string{"id", "username", "role"}).
			AddRow(7, "alice", model.RoleAdmin)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
			WithArgs("alice", 1).
			WillReturnRows(rows)

		user, err := repo.GetByUsername("alice")

		assert.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.True(t, user.IsAdmin())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
			WithArgs("ghost", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByUsername("ghost")

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCount(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count()

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestHasFollow(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.HasFollow(1, 2)

	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdateRole(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WithArgs(model.RoleAdmin, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateRole(5, model.RoleAdmin)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
