package auth

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shangrila/internal/models"
	"shangrila/internal/repo"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := New(repo.NewMemoryUserStore(), repo.NewMemoryTokenStore(), 30*24*time.Hour, false)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Len(t, token.Token, 64) // 32 байта hex
	assert.Equal(t, svc.now().UTC().Add(30*24*time.Hour), token.ExpiresAt)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.Len(t, u.PasswordHash, 128) // pbkdf2 64 байта hex

	// логин и по email, и по username
	byEmail, _, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, _, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.NoError(t, err)

	// неверный пароль и незнакомый идентификатор неразличимы
	_, _, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestRegister_Conflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice@example.com", "alice2", "s3cret")
	require.ErrorIs(t, err, models.ErrEmailTaken)

	_, _, err = svc.Register(ctx, "alice2@example.com", "alice", "s3cret")
	require.ErrorIs(t, err, models.ErrUsernameTaken)
}

// Параллельные регистрации одного email/username: пройти должна
// ровно одна, остальные — конфликт, а не дубликаты в хранилище.
func TestRegister_ConcurrentSameIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Register(ctx, "alice@example.com", "alice", "s3cret")
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case assert.ErrorIs(t, err, models.ErrEmailTaken):
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)

	// в хранилище ровно один пользователь alice
	u, _, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(1), u.ID)
}

func TestRegisterInline(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.RegisterInline(ctx, "bob@example.com", "bob", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, id)

	// повторная попытка — единый конфликт без уточнения поля
	_, err = svc.RegisterInline(ctx, "bob@example.com", "bob2", "s3cret")
	require.ErrorIs(t, err, models.ErrAccountExists)

	// аккаунт рабочий: логин проходит
	u, _, err := svc.Login(ctx, "bob", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
}

func TestResolveToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.NoError(t, err)

	got, err := svc.ResolveToken(ctx, token.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	// незнакомый и пустой токены — nil без ошибки
	got, err = svc.ResolveToken(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = svc.ResolveToken(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveToken_Expired(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.NoError(t, err)

	// сдвигаем часы за горизонт токена
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }

	got, err := svc.ResolveToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLogout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token.Token))

	got, err := svc.ResolveToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	// повторный logout того же токена не ошибка
	require.NoError(t, svc.Logout(ctx, token.Token))
}

func TestUserFromRequest(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/auth/user", nil)
	r.Header.Set("Authorization", "Bearer "+token.Token)
	got, err := svc.UserFromRequest(r)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	// без заголовка и с чужой схемой — анонимный запрос
	r = httptest.NewRequest("GET", "/api/auth/user", nil)
	got, err = svc.UserFromRequest(r)
	require.NoError(t, err)
	assert.Nil(t, got)

	r.Header.Set("Authorization", "Basic abc")
	got, err = svc.UserFromRequest(r)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDegraded(t *testing.T) {
	svc := New(repo.NewMemoryUserStore(), repo.NewMemoryTokenStore(), 30*24*time.Hour, true)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	require.ErrorIs(t, err, models.ErrStoreUnavailable)

	_, _, err = svc.Login(ctx, "alice", "s3cret")
	require.ErrorIs(t, err, models.ErrStoreUnavailable)

	// токены не резолвятся, но и не валят запрос
	got, err := svc.ResolveToken(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, got)
}
