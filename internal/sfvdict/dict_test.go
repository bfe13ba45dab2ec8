package sfvdict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/httpsig/internal/sfvdict"
)

func TestSplitSingleMember(t *testing.T) {
	members, err := sfvdict.Split(`sig1=("@authority");created=1735689600;keyid="abc"`)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "sig1", members[0].Label)
	assert.Equal(t, `("@authority");created=1735689600;keyid="abc"`, members[0].Raw)
}

func TestSplitMultipleMembers(t *testing.T) {
	members, err := sfvdict.Split(`sig1=:dGVzdA==:, sig2=:b3RoZXI=:`)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "sig1", members[0].Label)
	assert.Equal(t, ":dGVzdA==:", members[0].Raw)
	assert.Equal(t, "sig2", members[1].Label)
	assert.Equal(t, ":b3RoZXI=:", members[1].Raw)
}

func TestSplitIgnoresCommaInsideString(t *testing.T) {
	members, err := sfvdict.Split(`sig1=("@authority");nonce="a,b"`)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, `("@authority");nonce="a,b"`, members[0].Raw)
}

func TestSplitIgnoresCommaInsideByteSequence(t *testing.T) {
	members, err := sfvdict.Split(`sig1=:dGVz,dA==:, sig2=:b3RoZXI=:`)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, ":dGVz,dA==:", members[0].Raw)
}

func TestSplitBareBoolean(t *testing.T) {
	members, err := sfvdict.Split(`sf, tr=?0`)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "?1", members[0].Raw)
	assert.Equal(t, "?0", members[1].Raw)
}

func TestSplitUnbalancedParen(t *testing.T) {
	_, err := sfvdict.Split(`sig1=("@authority"`)
	require.Error(t, err)
}

func TestSplitUnterminatedString(t *testing.T) {
	_, err := sfvdict.Split(`sig1=("@authority");nonce="unterminated`)
	require.Error(t, err)
}

func TestSplitEmpty(t *testing.T) {
	members, err := sfvdict.Split("")
	require.NoError(t, err)
	assert.Empty(t, members)
}
