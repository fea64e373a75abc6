package utils_test

import (
	"testing"

	"github.com/relatoria/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("claim-set-test-secret")

func TestClaimSetRoundTrip(t *testing.T) {
	ids := []uint{3, 17, 42}

	token, err := utils.SignClaimSet(ids, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := utils.ParseClaimSet(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, ids, parsed)
}

func TestClaimSetEmpty(t *testing.T) {
	token, err := utils.SignClaimSet(nil, testSecret)
	require.NoError(t, err)

	parsed, err := utils.ParseClaimSet(token, testSecret)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestClaimSetRejectsWrongSecret(t *testing.T) {
	token, err := utils.SignClaimSet([]uint{1}, testSecret)
	require.NoError(t, err)

	_, err = utils.ParseClaimSet(token, []byte("another-secret"))
	assert.ErrorIs(t, err, utils.ErrInvalidClaimToken)
}

func TestClaimSetRejectsTampering(t *testing.T) {
	token, err := utils.SignClaimSet([]uint{1}, testSecret)
	require.NoError(t, err)

	// Flip a character inside the payload segment.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = utils.ParseClaimSet(string(tampered), testSecret)
	assert.ErrorIs(t, err, utils.ErrInvalidClaimToken)
}

func TestClaimSetRejectsGarbage(t *testing.T) {
	_, err := utils.ParseClaimSet("not-a-token", testSecret)
	assert.ErrorIs(t, err, utils.ErrInvalidClaimToken)
}

func TestAppendClaim(t *testing.T) {
	ids := utils.AppendClaim(nil, 5)
	ids = utils.AppendClaim(ids, 9)
	ids = utils.AppendClaim(ids, 5) // duplicate

	assert.Equal(t, []uint{5, 9}, ids)
}

func TestClaimSetContains(t *testing.T) {
	ids := []uint{2, 4}

	assert.True(t, utils.ClaimSetContains(ids, 2))
	assert.True(t, utils.ClaimSetContains(ids, 4))
	assert.False(t, utils.ClaimSetContains(ids, 8))
	assert.False(t, utils.ClaimSetContains(nil, 1))
}
