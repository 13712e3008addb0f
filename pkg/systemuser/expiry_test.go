package systemuser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/okapikit/pkg/systemuser"
)

var issuedAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

func TestComputeExpiry(t *testing.T) {
	t.Parallel()

	got := systemuser.ComputeExpiry(issuedAt, issuedAt.Add(10*time.Minute))
	assert.Equal(t, issuedAt.Add(5*time.Minute), got)

	// already expired upstream stays in the past
	got = systemuser.ComputeExpiry(issuedAt, issuedAt.Add(-2*time.Minute))
	assert.Equal(t, issuedAt.Add(-time.Minute), got)
}

func TestIsAboutToExpire(t *testing.T) {
	t.Parallel()

	cred := &systemuser.Credential{
		AccessToken: "tok",
		Expiry:      systemuser.ComputeExpiry(issuedAt, issuedAt.Add(10*time.Minute)),
	}

	assert.False(t, systemuser.IsAboutToExpire(cred, issuedAt))
	assert.False(t, systemuser.IsAboutToExpire(cred, issuedAt.Add(4*time.Minute+59*time.Second)))
	assert.True(t, systemuser.IsAboutToExpire(cred, issuedAt.Add(5*time.Minute)))
	assert.True(t, systemuser.IsAboutToExpire(cred, issuedAt.Add(6*time.Minute)))
	assert.True(t, systemuser.IsAboutToExpire(nil, issuedAt))
}

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	t.Run("rfc3339", func(t *testing.T) {
		t.Parallel()
		got, err := systemuser.ParseExpiry(issuedAt, "2026-01-01T10:10:00Z")
		require.NoError(t, err)
		assert.True(t, issuedAt.Add(5*time.Minute).Equal(got))
	})

	t.Run("fractional seconds and offset", func(t *testing.T) {
		t.Parallel()
		got, err := systemuser.ParseExpiry(issuedAt, "2026-01-01T12:20:00.000+02:00")
		require.NoError(t, err)
		assert.True(t, issuedAt.Add(10*time.Minute).Equal(got))
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"", "tomorrow", "2026-01-01 10:10:00"} {
			_, err := systemuser.ParseExpiry(issuedAt, raw)
			assert.ErrorIs(t, err, systemuser.ErrInvalidExpiry, raw)
		}
	})
}
