package fs

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry names a predefined disk image size, so callers of
// cmd/simplefsctl don't need to compute a block count by hand. This is a
// direct continuation of the teacher's disks.DiskGeometry / GetPredefinedDiskGeometry.
type Geometry struct {
	Name   string `csv:"name"`
	Slug   string `csv:"slug"`
	Blocks uint32 `csv:"blocks"`
	Notes  string `csv:"notes"`
}

//go:embed geometries.csv
var geometriesRawCSV string

var geometries map[string]Geometry

func init() {
	geometries = make(map[string]Geometry)
	reader := strings.NewReader(geometriesRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Geometry) error {
		if _, exists := geometries[row.Slug]; exists {
			return fmt.Errorf("duplicate definition for disk geometry %q", row.Slug)
		}
		geometries[row.Slug] = row
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// PredefinedGeometry returns the named preset disk geometry, e.g. "floppy"
// or "large".
func PredefinedGeometry(slug string) (Geometry, error) {
	geometry, ok := geometries[slug]
	if !ok {
		return Geometry{}, fmt.Errorf("no predefined disk geometry named %q", slug)
	}
	return geometry, nil
}

// GeometryNames lists every predefined geometry slug, for CLI help text.
func GeometryNames() []string {
	names := make([]string, 0, len(geometries))
	for slug := range geometries {
		names = append(names, slug)
	}
	return names
}
