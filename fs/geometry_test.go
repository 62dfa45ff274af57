package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dargueta/simplefs/fs"
)

func TestPredefinedGeometryLookup(t *testing.T) {
	geometry, err := fs.PredefinedGeometry("tiny")
	require.NoError(t, err)
	assert.Equal(t, uint32(10), geometry.Blocks)
}

func TestPredefinedGeometryUnknownSlug(t *testing.T) {
	_, err := fs.PredefinedGeometry("does-not-exist")
	assert.Error(t, err)
}

func TestGeometryNamesIncludesEveryPreset(t *testing.T) {
	names := fs.GeometryNames()
	assert.Contains(t, names, "tiny")
	assert.Contains(t, names, "floppy")
	assert.Contains(t, names, "large")
}
