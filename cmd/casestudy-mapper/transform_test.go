package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/value"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"separator=, ", "max=3", "strict=true", "empty="})
	require.NoError(t, err)

	assert.Equal(t, ", ", opts.String("separator", ""))
	assert.True(t, opts["max"].Equal(value.Int(3)))
	assert.True(t, opts["strict"].Equal(value.Bool(true)))
	assert.True(t, opts["empty"].Equal(value.String("")))

	opts, err = parseOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, opts)

	_, err = parseOptions([]string{"novalue"})
	assert.Error(t, err)
}

func TestReadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"p_title":"Atlas","p_tags":[{"name":"A"}]}`), 0o600))

	record, err := readRecord(path)
	require.NoError(t, err)
	require.Len(t, record, 2)
	assert.True(t, record["p_title"].Equal(value.String("Atlas")))

	_, err = readRecord("")
	assert.Error(t, err)
}
