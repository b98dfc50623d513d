package ports

import (
	"testing"

	"github.com/juju/collections/set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	known := set.NewStrings("mountd", "status", "nlockmgr")

	overrides, err := ParseOverrides("mountd=4711 status=815", known)
	require.NoError(t, err)
	assert.Equal(t, Overrides{"mountd": 4711, "status": 815}, overrides)
}

func TestParseOverridesEmpty(t *testing.T) {
	overrides, err := ParseOverrides("", set.NewStrings("mountd"))
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestParseOverridesErrors(t *testing.T) {
	known := set.NewStrings("mountd", "status")

	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown service", input: "mountd=4711 ftp=21"},
		{name: "non-integer port", input: "mountd=abc"},
		{name: "out of range port", input: "mountd=99999"},
		{name: "missing port", input: "mountd"},
		{name: "too many separators", input: "mountd=4711=815"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides, err := ParseOverrides(tt.input, known)
			assert.Error(t, err)
			assert.Nil(t, overrides)
		})
	}
}

func TestParsePort(t *testing.T) {
	port, err := ParsePort("713")
	require.NoError(t, err)
	assert.Equal(t, 713, port)

	_, err = ParsePort("0")
	assert.Error(t, err)
	_, err = ParsePort("65536")
	assert.Error(t, err)
	_, err = ParsePort("seven")
	assert.Error(t, err)
}
