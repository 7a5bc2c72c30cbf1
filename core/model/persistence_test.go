package model

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Classes []float64
	Rho     []float64
	Trained bool
}

func TestSaveLoadRoundTrip(t *testing.T) {
	in := snapshot{Classes: []float64{0, 1}, Rho: []float64{-0.42}, Trained: true}

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, SaveModel(&in, path))

	var out snapshot
	require.NoError(t, LoadModel(&out, path))
	assert.Equal(t, in, out)
}

func TestSaveLoadWriterReader(t *testing.T) {
	in := snapshot{Classes: []float64{3, 5, 9}, Trained: true}

	var buf bytes.Buffer
	require.NoError(t, SaveModelToWriter(&in, &buf))

	var out snapshot
	require.NoError(t, LoadModelFromReader(&out, &buf))
	assert.Equal(t, in, out)
}

func TestLoadMissingFile(t *testing.T) {
	var out snapshot
	err := LoadModel(&out, filepath.Join(t.TempDir(), "absent.gob"))
	assert.Error(t, err)
}
