package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T) (*TokenCodec, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, time.November, 8, 12, 0, 0, 0, time.UTC)}
	codec, err := NewTokenCodec("test-secret", "HS256")
	require.NoError(t, err)
	return codec.WithClock(clock.Now), clock
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, h.Verify("s3cret", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("s3cret", "not-a-bcrypt-hash"))
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).cost)
}

func TestNewTokenCodec_RejectsNonHMAC(t *testing.T) {
	_, err := NewTokenCodec("secret", "RS256")
	assert.Error(t, err)

	_, err = NewTokenCodec("secret", "none")
	assert.Error(t, err)

	_, err = NewTokenCodec("", "HS256")
	assert.Error(t, err)
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, clock := newTestCodec(t)

	in := Claims{Subject: "alice", SessionID: "0b7e5c0e-4c8e-4a57-9d27-1f0d86a3f1a1", Type: AccessToken}
	token, err := codec.Issue(in, time.Hour)
	require.NoError(t, err)

	out, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, in.Subject, out.Subject)
	assert.Equal(t, in.SessionID, out.SessionID)
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, clock.Now().Add(time.Hour).Unix(), out.ExpiresAt.Unix())
}

func TestTokenCodec_Expiry(t *testing.T) {
	codec, clock := newTestCodec(t)

	token, err := codec.Issue(Claims{Subject: "alice", SessionID: "sid", Type: AccessToken}, 15*time.Minute)
	require.NoError(t, err)

	clock.Advance(14 * time.Minute)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenCodec_RefreshWithoutExpiry(t *testing.T) {
	codec, clock := newTestCodec(t)

	token, err := codec.Issue(Claims{Subject: "alice", SessionID: "sid", Type: RefreshToken}, 0)
	require.NoError(t, err)

	clock.Advance(365 * 24 * time.Hour)
	out, err := codec.Verify(token)
	require.NoError(t, err)
	assert.True(t, out.ExpiresAt.IsZero())
	assert.Equal(t, RefreshToken, out.Type)
}

func TestTokenCodec_AccessTokenRequiresExpiry(t *testing.T) {
	codec, _ := newTestCodec(t)

	token, err := codec.Issue(Claims{Subject: "alice", SessionID: "sid", Type: AccessToken}, 0)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenCodec_RejectsTampering(t *testing.T) {
	codec, clock := newTestCodec(t)
	token, err := codec.Issue(Claims{Subject: "alice", SessionID: "sid", Type: AccessToken}, time.Hour)
	require.NoError(t, err)

	other, err := NewTokenCodec("other-secret", "HS256")
	require.NoError(t, err)
	other.WithClock(clock.Now)

	hs512, err := NewTokenCodec("test-secret", "HS512")
	require.NoError(t, err)
	hs512.WithClock(clock.Now)
	wrongAlg, err := hs512.Issue(Claims{Subject: "alice", SessionID: "sid", Type: AccessToken}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"session_id": "sid", "typ": "access", "exp": clock.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		codec *TokenCodec
		token string
	}{
		{"malformed", codec, "not.a.token"},
		{"empty", codec, ""},
		{"other secret", other, token},
		{"forged signature", codec, forged},
		{"different algorithm", codec, wrongAlg},
		{"unsigned", codec, unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.Verify(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestTokenCodec_MissingSessionID(t *testing.T) {
	codec, _ := newTestCodec(t)

	token, err := codec.Issue(Claims{Subject: "alice", Type: AccessToken}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
