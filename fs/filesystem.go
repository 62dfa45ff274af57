package fs

import (
	"math"

	"github.com/hashicorp/go-multierror"

	"github.com/dargueta/simplefs/disk"
	dskerrors "github.com/dargueta/simplefs/errors"
)

// FileSystem is the in-memory mount state described in spec §2 and §4.3: a
// disk reference, a cached superblock, and a free-block bitmap. A zero-value
// FileSystem is unmounted.
type FileSystem struct {
	disk   *disk.Disk
	meta   SuperBlock
	bitmap *freeBlockBitmap
}

// IsMounted reports whether the file system is currently bound to a disk.
func (fs *FileSystem) IsMounted() bool {
	return fs.disk != nil
}

// firstDataBlock is the lowest block number eligible for allocation: the
// superblock plus the inode table occupy blocks 0..inode_blocks.
func firstDataBlock(inodeBlocks uint32) uint32 {
	return 1 + inodeBlocks
}

// Format writes a fresh superblock and a zeroed inode table onto d. Data
// blocks are left untouched, matching spec §4.2. It is the caller's
// responsibility not to format a disk that currently has a FileSystem
// mounted on it (spec §5 places the same burden on double-mounting).
func Format(d *disk.Disk) dskerrors.DriverError {
	if d == nil {
		panic("disk must not be nil")
	}

	inodeBlocks := uint32(math.Ceil(float64(d.Blocks) * 0.10))
	sb := SuperBlock{
		MagicNumber: MagicNumber,
		Blocks:      d.Blocks,
		InodeBlocks: inodeBlocks,
		Inodes:      inodeBlocks * InodesPerBlock,
	}

	if _, err := d.Write(0, encodeSuperBlock(sb)); err != nil {
		return dskerrors.ErrIOFailed.WrapError(err)
	}

	var zeroInodes [InodesPerBlock]Inode
	zeroedBlock := encodeInodeBlock(zeroInodes)
	for i := uint32(1); i <= inodeBlocks; i++ {
		if _, err := d.Write(i, zeroedBlock); err != nil {
			return dskerrors.ErrIOFailed.WrapError(err)
		}
	}

	return nil
}

// Mount binds d to fs, validating the on-disk superblock and rebuilding the
// free-block bitmap from scratch (spec §4.3, §4.7). If fs is already
// mounted, Mount returns an error and leaves it mounted; on any other
// failure fs is left unmounted.
func Mount(fs *FileSystem, d *disk.Disk) dskerrors.DriverError {
	if fs == nil || d == nil {
		panic("fs and disk must not be nil")
	}
	if fs.IsMounted() {
		return dskerrors.ErrAlreadyInProgress.WithMessage("file system is already mounted")
	}

	buf := make([]byte, BlockSize)
	if _, err := d.Read(0, buf); err != nil {
		return dskerrors.ErrIOFailed.WrapError(err)
	}
	sb := decodeSuperBlock(buf)

	if sb.MagicNumber != MagicNumber {
		return dskerrors.ErrFileSystemCorrupted.WithMessage("bad magic number")
	}
	if sb.Blocks != d.Blocks {
		return dskerrors.ErrFileSystemCorrupted.WithMessage("superblock block count disagrees with disk")
	}
	if sb.InodeBlocks == 0 || sb.InodeBlocks >= sb.Blocks {
		return dskerrors.ErrFileSystemCorrupted.WithMessage("invalid inode block count")
	}

	fs.meta = sb
	fs.disk = d

	bm, err := buildFreeBlockBitmap(d, sb)
	if err != nil {
		fs.disk = nil
		return err
	}
	fs.bitmap = bm
	return nil
}

// Unmount releases the bitmap and clears the disk reference. Calling any
// other operation on fs afterward is a programming error.
func Unmount(fs *FileSystem) {
	if fs == nil {
		panic("fs must not be nil")
	}
	fs.bitmap = nil
	fs.disk = nil
}

// buildFreeBlockBitmap reconstructs the free-block bitmap by scanning every
// valid inode, per spec §4.7. Every corruption found (a pointer outside the
// data region) is accumulated rather than aborting at the first one, so a
// single mount failure reports every bad pointer at once.
func buildFreeBlockBitmap(d *disk.Disk, sb SuperBlock) (*freeBlockBitmap, dskerrors.DriverError) {
	bm := newFreeBlockBitmap(sb.Blocks)
	for i := uint32(0); i <= sb.InodeBlocks; i++ {
		bm.markUsed(i)
	}

	var corruption *multierror.Error
	firstData := firstDataBlock(sb.InodeBlocks)

	checkPointer := func(ptr uint32) bool {
		if ptr < firstData || ptr >= sb.Blocks {
			corruption = multierror.Append(corruption, dskerrors.ErrFileSystemCorrupted.WithMessage(
				"pointer out of data region"))
			return false
		}
		return true
	}

	inodeBuf := make([]byte, BlockSize)
	indirectBuf := make([]byte, BlockSize)

	for blockNum := uint32(1); blockNum <= sb.InodeBlocks; blockNum++ {
		if _, err := d.Read(blockNum, inodeBuf); err != nil {
			return nil, dskerrors.ErrIOFailed.WrapError(err)
		}
		inodes := decodeInodeBlock(inodeBuf)

		for _, inode := range inodes {
			if inode.Valid == 0 {
				continue
			}

			for _, ptr := range inode.Direct {
				if ptr == 0 {
					continue
				}
				if checkPointer(ptr) {
					bm.markUsed(ptr)
				}
			}

			if inode.Indirect == 0 {
				continue
			}
			if !checkPointer(inode.Indirect) {
				continue
			}
			bm.markUsed(inode.Indirect)

			if _, err := d.Read(inode.Indirect, indirectBuf); err != nil {
				return nil, dskerrors.ErrIOFailed.WrapError(err)
			}
			for _, ptr := range decodePointerBlock(indirectBuf) {
				if ptr == 0 {
					continue
				}
				if checkPointer(ptr) {
					bm.markUsed(ptr)
				}
			}
		}
	}

	if corruption.ErrorOrNil() != nil {
		return nil, dskerrors.ErrFileSystemCorrupted.WrapError(corruption)
	}
	return bm, nil
}
