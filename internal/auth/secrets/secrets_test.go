package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "anuragmeds/pkg/domain-errors"
)

func TestHashProducesDistinctDigests(t *testing.T) {
	first, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	second, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	// Each digest carries its own salt.
	assert.NotEqual(t, first, second)
	assert.NoError(t, Verify("correct horse battery staple", first))
	assert.NoError(t, Verify("correct horse battery staple", second))
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	_, err := Hash("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestVerifyWrongPassword(t *testing.T) {
	digest, err := Hash("s3cret-password")
	require.NoError(t, err)

	err = Verify("not-the-password", digest)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerifyMalformedDigest(t *testing.T) {
	err := Verify("whatever", "definitely-not-bcrypt")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
