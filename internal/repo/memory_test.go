package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shangrila/internal/models"
)

func TestMemoryUserStore_RejectsDuplicates(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.User{Email: "alice@example.com", Username: "alice"}))

	err := s.Create(ctx, &models.User{Email: "alice@example.com", Username: "alice2"})
	require.ErrorIs(t, err, models.ErrAccountExists)

	err = s.Create(ctx, &models.User{Email: "alice2@example.com", Username: "alice"})
	require.ErrorIs(t, err, models.ErrAccountExists)

	u, err := s.GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), u.ID)
}
