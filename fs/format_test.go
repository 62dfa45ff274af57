package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dargueta/simplefs/fs"
	"github.com/dargueta/simplefs/testingutil"
)

func TestFormatThenMountProducesEmptyInodeTable(t *testing.T) {
	d := testingutil.NewMemoryDisk(t, 10)
	require.Nil(t, fs.Format(d))

	var filesystem fs.FileSystem
	require.Nil(t, fs.Mount(&filesystem, d))
	defer fs.Unmount(&filesystem)

	assert.EqualValues(t, 0, filesystem.Create())

	// The freshly created inode is the only one in use; the next slot must
	// still read as not-found.
	assert.EqualValues(t, -1, filesystem.Stat(1))
}

func TestFormatOnTenBlockDiskMatchesExpectedGeometry(t *testing.T) {
	d := testingutil.NewMemoryDisk(t, 10)
	require.Nil(t, fs.Format(d))

	var filesystem fs.FileSystem
	require.Nil(t, fs.Mount(&filesystem, d))
	defer fs.Unmount(&filesystem)

	// 10 blocks * 0.10 rounded up = 1 inode block = 128 inodes.
	for n := uint32(0); n < 128; n++ {
		assert.EqualValues(t, -1, filesystem.Stat(n), "inode %d should be unallocated after format", n)
	}
}

func TestMountRejectsBadMagicNumber(t *testing.T) {
	d := testingutil.NewMemoryDisk(t, 10)
	require.Nil(t, fs.Format(d))

	corrupt := make([]byte, 4)
	_, err := d.Write(0, append(corrupt, make([]byte, 4092)...))
	require.Nil(t, err)

	var filesystem fs.FileSystem
	mountErr := fs.Mount(&filesystem, d)
	assert.NotNil(t, mountErr)
	assert.False(t, filesystem.IsMounted())
}

func TestMountRejectsBlockCountMismatch(t *testing.T) {
	d := testingutil.NewMemoryDisk(t, 10)
	require.Nil(t, fs.Format(d))

	other := testingutil.NewMemoryDisk(t, 20)
	require.Nil(t, fs.Format(other))

	// Read the superblock from the 20-block disk and write it onto the
	// 10-block disk: now `blocks` disagrees with the actual disk size.
	buf := make([]byte, fs.BlockSize)
	_, err := other.Read(0, buf)
	require.Nil(t, err)
	_, err = d.Write(0, buf)
	require.Nil(t, err)

	var filesystem fs.FileSystem
	mountErr := fs.Mount(&filesystem, d)
	assert.NotNil(t, mountErr)
}
