package usecase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
)

var (
	mockCTX = ctx.Background()
	caller  = domain.Address("0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D")
)

func TestSignAndParseToken(t *testing.T) {
	u := New("jwt-secret")

	tkn, err := u.SignToken(mockCTX, caller, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tkn)

	got, err := u.ParseToken(mockCTX, tkn)
	require.NoError(t, err)
	assert.Equal(t, caller.ToLower(), got)

	_, err = New("other-secret").ParseToken(mockCTX, tkn)
	assert.Error(t, err)

	_, err = u.SignToken(mockCTX, "not-an-address", time.Hour)
	assert.Equal(t, domain.ErrInvalidAddress, err)
}

func TestExpiredToken(t *testing.T) {
	u := New("jwt-secret")

	prev := timeNow
	timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tkn, err := u.SignToken(mockCTX, caller, time.Hour)
	timeNow = prev
	require.NoError(t, err)

	_, err = u.ParseToken(mockCTX, tkn)
	assert.Error(t, err)

	// no ttl
	tkn, err = u.SignToken(mockCTX, caller, 0)
	require.NoError(t, err)
	_, err = u.ParseToken(mockCTX, tkn)
	assert.NoError(t, err)
}

func TestRejectsOtherSigningMethod(t *testing.T) {
	tkn, err := jwt.NewWithClaims(jwt.SigningMethodNone, domain.HostClaims{Caller: caller.ToLowerStr()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = New("jwt-secret").ParseToken(mockCTX, tkn)
	assert.Error(t, err)
}
