// Package testingutil provides in-memory disk images for SimpleFS tests,
// mirroring the teacher repo's testing.LoadDiskImage helper.
package testingutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/dargueta/simplefs/disk"
)

// NewMemoryDisk allocates a zeroed in-memory image of the given block count
// and wraps it in a *disk.Disk. The returned stream never touches the host
// file system.
func NewMemoryDisk(t *testing.T, blocks uint32) *disk.Disk {
	t.Helper()

	imageBytes := make([]byte, uint64(blocks)*disk.BlockSize)
	stream := bytesextra.NewReadWriteSeeker(imageBytes)
	require.NotNil(t, stream, "failed to create in-memory disk stream")

	return disk.Open(stream, blocks)
}
