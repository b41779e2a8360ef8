package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("s3cret"), TTL: time.Hour}
	tok, exp, err := issuer.GenerateToken("u1", "a@b.com", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := issuer.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("one"), TTL: time.Hour}
	tok, _, err := issuer.GenerateToken("u1", "", "")
	require.NoError(t, err)

	_, err = (&TokenIssuer{Secret: []byte("two")}).ParseToken(tok)
	assert.Error(t, err)

	past := &TokenIssuer{Secret: []byte("one"), TTL: time.Minute, Now: func() time.Time { return time.Now().Add(-time.Hour) }}
	old, _, err := past.GenerateToken("u1", "", "")
	require.NoError(t, err)
	_, err = issuer.ParseToken(old)
	assert.Error(t, err)
}
