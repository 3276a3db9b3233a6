package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"shangrila/internal/models"
	"shangrila/internal/repo"
)

// Параметры KDF. Хешируем pbkdf2-sha512, 64-байтовый вывод;
// соль — 16 случайных байт, хранится hex-строкой рядом с хешем.
const (
	kdfIterations = 1000
	kdfKeyLen     = 64
	saltBytes     = 16
	tokenBytes    = 32
)

type Service struct {
	users    repo.UserStore
	tokens   repo.TokenStore
	ttl      time.Duration
	degraded bool
	now      func() time.Time

	// regMu сериализует проверку занятости и вставку пользователя:
	// два одновременных Register на один email не должны пройти оба.
	regMu sync.Mutex
}

func New(users repo.UserStore, tokens repo.TokenStore, tokenTTL time.Duration, degraded bool) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		ttl:      tokenTTL,
		degraded: degraded,
		now:      time.Now,
	}
}

func hashPassword(password, salt string) string {
	return hex.EncodeToString(pbkdf2.Key([]byte(password), []byte(salt), kdfIterations, kdfKeyLen, sha512.New))
}

func newSalt() string {
	var raw [saltBytes]byte
	_, _ = rand.Read(raw[:])
	return hex.EncodeToString(raw[:])
}

func newTokenValue() string {
	var raw [tokenBytes]byte
	_, _ = rand.Read(raw[:])
	return hex.EncodeToString(raw[:])
}

func verifyPassword(password, storedHash, storedSalt string) bool {
	h := hashPassword(password, storedSalt)
	return subtle.ConstantTimeCompare([]byte(h), []byte(storedHash)) == 1
}

// createUser держит regMu на время проверки занятости и вставки.
// Если email или username уже заняты, возвращает существующего
// пользователя вместо ошибки: вид конфликта решает вызывающий.
func (s *Service) createUser(ctx context.Context, email, username, password string) (created, existing *models.User, err error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	existing, err = s.users.GetByEmailOrUsername(ctx, email, username)
	if err != nil && err != models.ErrNotFound {
		return nil, nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, existing, nil
	}

	salt := newSalt()
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil, nil
}

// Register создаёт пользователя и сразу выдаёт токен (регистрация = логин).
// Конфликт по email и по username различается в сообщении.
func (s *Service) Register(ctx context.Context, email, username, password string) (*models.User, *models.AuthToken, error) {
	if s.degraded {
		return nil, nil, models.ErrStoreUnavailable
	}
	u, existing, err := s.createUser(ctx, email, username, password)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		if existing.Email == email {
			return nil, nil, models.ErrEmailTaken
		}
		return nil, nil, models.ErrUsernameTaken
	}
	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, token, nil
}

// RegisterInline создаёт аккаунт по пути бронирования (гость указал
// username/password в форме). Токен не выдаётся.
func (s *Service) RegisterInline(ctx context.Context, email, username, password string) (uint, error) {
	if s.degraded {
		return 0, models.ErrStoreUnavailable
	}
	u, existing, err := s.createUser(ctx, email, username, password)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, models.ErrAccountExists
	}
	return u.ID, nil
}

// Login принимает email или username одним полем. Любое несовпадение —
// одна и та же ошибка: не раскрываем, что именно не подошло.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, *models.AuthToken, error) {
	if s.degraded {
		return nil, nil, models.ErrStoreUnavailable
	}
	u, err := s.users.GetByIdentifier(ctx, identifier)
	if err == models.ErrNotFound {
		// холостой прогон KDF, чтобы не отличаться по времени
		_ = hashPassword(password, "0000000000000000")
		return nil, nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}
	if !verifyPassword(password, u.PasswordHash, u.Salt) {
		return nil, nil, models.ErrInvalidCredentials
	}
	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, token, nil
}

func (s *Service) issueToken(ctx context.Context, userID uint) (*models.AuthToken, error) {
	t := &models.AuthToken{
		UserID:    userID,
		Token:     newTokenValue(),
		ExpiresAt: s.now().UTC().Add(s.ttl),
		CreatedAt: s.now().UTC(),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return t, nil
}

// ResolveToken «fail closed»: на пустой, незнакомый, удалённый или
// истёкший токен отвечает nil без ошибки — это ожидаемое состояние.
func (s *Service) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" || s.degraded {
		return nil, nil
	}
	t, err := s.tokens.GetValid(ctx, token, s.now().UTC())
	if err == models.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	u, err := s.users.GetByID(ctx, t.UserID)
	if err == models.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if s.degraded {
		return models.ErrStoreUnavailable
	}
	return s.tokens.Delete(ctx, token)
}

// BearerToken достаёт токен из заголовка Authorization.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// UserFromRequest — необязательная аутентификация: nil без ошибки,
// если токена нет или он невалиден.
func (s *Service) UserFromRequest(r *http.Request) (*models.User, error) {
	return s.ResolveToken(r.Context(), BearerToken(r))
}
