package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dargueta/simplefs/fs"
)

func TestCreateWriteReadRoundTrip(t *testing.T) {
	filesystem := mountedFS(t, 100)

	n := uint32(filesystem.Create())
	require.EqualValues(t, 0, n)

	message := []byte("hello")
	written := filesystem.Write(n, message, uint32(len(message)), 0)
	require.EqualValues(t, 5, written)
	require.EqualValues(t, 5, filesystem.Stat(n))

	buf := make([]byte, 5)
	read := filesystem.Read(n, buf, 5, 0)
	require.EqualValues(t, 5, read)
	assert.Equal(t, message, buf)
}

func TestCrossBlockWriteUsesTwoDirectPointers(t *testing.T) {
	filesystem := mountedFS(t, 100)
	n := uint32(filesystem.Create())

	payload := make([]byte, fs.BlockSize*2)
	for i := range payload {
		payload[i] = byte(i % 256)
	}

	written := filesystem.Write(n, payload, uint32(len(payload)), 0)
	require.EqualValues(t, len(payload), written)

	readBack := make([]byte, len(payload))
	read := filesystem.Read(n, readBack, uint32(len(payload)), 0)
	require.EqualValues(t, len(payload), read)
	assert.Equal(t, payload, readBack)
}

func TestWriteAtIndirectBoundaryAllocatesIndirectBlock(t *testing.T) {
	filesystem := mountedFS(t, 2000)
	n := uint32(filesystem.Create())

	payload := make([]byte, fs.BlockSize)
	for i := range payload {
		payload[i] = byte(i % 256)
	}

	offset := uint32(fs.PointersPerInode * fs.BlockSize)
	written := filesystem.Write(n, payload, uint32(len(payload)), offset)
	require.EqualValues(t, len(payload), written)

	readBack := make([]byte, len(payload))
	read := filesystem.Read(n, readBack, uint32(len(payload)), offset)
	require.EqualValues(t, len(payload), read)
	assert.Equal(t, payload, readBack)
}

func TestReadAtOrPastEndOfFileReturnsZero(t *testing.T) {
	filesystem := mountedFS(t, 100)
	n := uint32(filesystem.Create())

	message := []byte("hi")
	written := filesystem.Write(n, message, uint32(len(message)), 0)
	require.EqualValues(t, 2, written)

	buf := make([]byte, 10)
	assert.EqualValues(t, 0, filesystem.Read(n, buf, 10, 2))
	assert.EqualValues(t, 0, filesystem.Read(n, buf, 10, 50))
}

func TestWriteRejectsOffsetAtOrPastMaxFileSize(t *testing.T) {
	filesystem := mountedFS(t, 2000)
	n := uint32(filesystem.Create())

	payload := []byte("overflow")
	assert.EqualValues(t, -1, filesystem.Write(n, payload, uint32(len(payload)), fs.MaxFileSize))
	assert.EqualValues(t, -1, filesystem.Write(n, payload, uint32(len(payload)), fs.MaxFileSize+fs.BlockSize))
}

func TestWriteClampsLengthToMaxFileSize(t *testing.T) {
	filesystem := mountedFS(t, 2000)
	n := uint32(filesystem.Create())

	offset := uint32(fs.MaxFileSize) - 4
	payload := []byte("12345678")
	written := filesystem.Write(n, payload, uint32(len(payload)), offset)
	assert.EqualValues(t, 4, written)
	assert.EqualValues(t, fs.MaxFileSize, filesystem.Stat(n))
}

func TestReadRejectsOffsetAtOrPastMaxFileSize(t *testing.T) {
	filesystem := mountedFS(t, 2000)
	n := uint32(filesystem.Create())

	buf := make([]byte, 8)
	assert.EqualValues(t, -1, filesystem.Read(n, buf, 8, fs.MaxFileSize))
}

func TestReadOfUnallocatedInodeFails(t *testing.T) {
	filesystem := mountedFS(t, 100)
	buf := make([]byte, 10)
	assert.EqualValues(t, -1, filesystem.Read(7, buf, 10, 0))
}

func TestPartialWriteUpdatesSizeToBytesActuallyWritten(t *testing.T) {
	// 150 blocks => 15 inode blocks => 134 data blocks. A 130-block file
	// plus its indirect block consumes 131 of them, leaving exactly 3 free.
	filesystem := mountedFS(t, 150)
	n := uint32(filesystem.Create())

	hog := uint32(filesystem.Create())
	big := make([]byte, fs.BlockSize*130)
	hogWritten := filesystem.Write(hog, big, uint32(len(big)), 0)
	require.EqualValues(t, len(big), hogWritten)

	remainder := make([]byte, fs.BlockSize*5)
	for i := range remainder {
		remainder[i] = 0xAB
	}
	written := filesystem.Write(n, remainder, uint32(len(remainder)), 0)
	assert.Less(t, written, int64(len(remainder)))
	assert.Greater(t, written, int64(0))
	assert.EqualValues(t, written, filesystem.Stat(n))
}

func TestOverwriteOfMiddleOfFilePreservesSurroundingBytes(t *testing.T) {
	filesystem := mountedFS(t, 100)
	n := uint32(filesystem.Create())

	original := make([]byte, fs.BlockSize)
	for i := range original {
		original[i] = 0x11
	}
	require.EqualValues(t, len(original), filesystem.Write(n, original, uint32(len(original)), 0))

	patch := []byte{0xAA, 0xBB, 0xCC}
	require.EqualValues(t, len(patch), filesystem.Write(n, patch, uint32(len(patch)), 10))

	readBack := make([]byte, fs.BlockSize)
	require.EqualValues(t, len(readBack), filesystem.Read(n, readBack, uint32(len(readBack)), 0))

	assert.Equal(t, byte(0x11), readBack[9])
	assert.Equal(t, patch, readBack[10:13])
	assert.Equal(t, byte(0x11), readBack[13])
}
