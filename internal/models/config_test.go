package models

import (
	"path/filepath"
	"testing"

	"github.com/kardianos/osext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigFile(t *testing.T) {
	want, err := osext.ExecutableFolder()
	require.NoError(t, err)

	dir, err := ExecutableFolder()
	require.NoError(t, err)
	assert.Equal(t, want, dir)

	fn, err := DefaultConfigFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(want, ConfigFileName), fn)

	conf, err := GetDefaultConfig()
	require.NoError(t, err)
	// The config file and the data directory share the executable's folder
	assert.Equal(t, filepath.Dir(fn), filepath.Dir(conf.DataDir))
	assert.Equal(t, ":3000", conf.ListenAddress)
	assert.Equal(t, DefaultSearchLimit, conf.Search.DefaultLimit)
}
