package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMemoryUserService(t *testing.T) (*UserService, *repomanager.InMemoryRepositoryManager) {
	t.Helper()
	m := repomanager.NewInMemoryRepositoryManager()
	return NewUserService(m, testConfig()), m
}

func TestUserService_CreateUser_StoresHash(t *testing.T) {
	ctx := context.Background()
	s, m := newMemoryUserService(t)

	u, err := s.CreateUser(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Empty(t, u.Password, "hash must not leave the service")

	stored, err := m.Users(nil).GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), passwordDigest("secret1")))
}

func TestUserService_LongPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryUserService(t)

	long := strings.Repeat("a", 80)
	_, err := s.CreateUser(ctx, "long@example.com", long)
	require.NoError(t, err)

	res, err := s.SignIn(ctx, "long@example.com", long)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	// passwords sharing the first 72 bytes must not collide
	_, err = s.SignIn(ctx, "long@example.com", strings.Repeat("a", 72)+"bbbbbbbb")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUserService_CreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryUserService(t)

	_, err := s.CreateUser(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice@example.com", "another")
	assert.ErrorIs(t, err, common.ErrDuplicatedEmail)
}

func TestUserService_CreateUser_DuplicateRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password, created_at FROM users`)).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "created_at"}).
			AddRow(int64(7), "alice@example.com", "hash", time.Now()))
	mock.ExpectRollback()

	s := NewUserService(repomanager.NewPostgresRepositoryManager(db), testConfig())

	_, err = s.CreateUser(context.Background(), "alice@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrDuplicatedEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_CreateUser_CommitsInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password, created_at FROM users`)).
		WithArgs("bob@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password)`)).
		WithArgs("bob@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))
	mock.ExpectCommit()

	s := NewUserService(repomanager.NewPostgresRepositoryManager(db), testConfig())

	u, err := s.CreateUser(context.Background(), "bob@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SignIn(t *testing.T) {
	ctx := context.Background()
	s, m := newMemoryUserService(t)

	_, err := s.CreateUser(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		res, err := s.SignIn(ctx, "alice@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.User.ID)
		assert.Equal(t, "alice@example.com", res.User.Email)
		assert.Empty(t, res.User.Password)
		assert.NotEmpty(t, res.Token)

		ok, err := m.Sessions(nil).Exists(ctx, res.Token)
		require.NoError(t, err)
		assert.True(t, ok, "sign-in must record a session")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.SignIn(ctx, "alice@example.com", "nope")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := s.SignIn(ctx, "ghost@example.com", "secret1")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("each sign-in gets its own token", func(t *testing.T) {
		a, err := s.SignIn(ctx, "alice@example.com", "secret1")
		require.NoError(t, err)
		b, err := s.SignIn(ctx, "alice@example.com", "secret1")
		require.NoError(t, err)
		assert.NotEqual(t, a.Token, b.Token)
	})
}

func TestUserService_SignIn_SessionStoreError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	m := repomanager.WithSessionStore(repomanager.NewInMemoryRepositoryManager(), &failingSessions{err: boom})
	s := NewUserService(m, testConfig())

	_, err := s.CreateUser(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = s.SignIn(ctx, "alice@example.com", "secret1")
	assert.ErrorIs(t, err, boom)
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryUserService(t)

	_, err := s.CreateUser(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	res, err := s.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	t.Run("valid session", func(t *testing.T) {
		id, err := s.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, id)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewUserService(repomanager.NewInMemoryRepositoryManager(), &testConfigOtherSecret)
		_, err := other.Authenticate(ctx, res.Token)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("signed out", func(t *testing.T) {
		r2, err := s.SignIn(ctx, "alice@example.com", "secret1")
		require.NoError(t, err)
		require.NoError(t, s.SignOut(ctx, r2.Token))

		_, err = s.Authenticate(ctx, r2.Token)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
		assert.ErrorIs(t, err, common.ErrSessionNotFound)

		// the first session is unaffected
		_, err = s.Authenticate(ctx, res.Token)
		assert.NoError(t, err)
	})
}

func TestUserService_Authenticate_StoreError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	base := repomanager.NewInMemoryRepositoryManager()
	s := NewUserService(base, testConfig())
	_, err := s.CreateUser(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	res, err := s.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	broken := NewUserService(repomanager.WithSessionStore(base, &failingSessions{err: boom}), testConfig())

	_, err = broken.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)

	assert.ErrorIs(t, broken.SignOut(ctx, res.Token), boom)
}
