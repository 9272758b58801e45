package errprop

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert := require.New(t)

	// the version string must round trip through a strict semver parse
	parsed, err := semver.Parse(Version.String())
	assert.NoError(err)
	assert.True(parsed.Equals(Version))
	assert.True(Version.GT(semver.Version{}))
}
