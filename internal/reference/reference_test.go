package reference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFormat(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))

	ref := New("BKG", now)
	// дата нормализуется к UTC: 23:30 UTC+5 — это ещё 1 марта 18:30 UTC
	assert.Regexp(t, `^BKG-20260301-\d{4}$`, ref)

	assert.Regexp(t, `^SPA-20260301-\d{4}$`, New("SPA", now))
}
