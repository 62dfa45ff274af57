package fs

import (
	dskerrors "github.com/dargueta/simplefs/errors"
)

func inodeLocation(n uint32) (block uint32, slot uint32) {
	return 1 + n/InodesPerBlock, n % InodesPerBlock
}

// loadInode reads inode n off disk. It reports ErrNotFound if the slot is
// unallocated, matching spec §4.4 and the "Inode load return semantics"
// design note: the result is returned directly rather than written through
// an out parameter.
func (fs *FileSystem) loadInode(n uint32) (Inode, dskerrors.DriverError) {
	if !fs.IsMounted() {
		panic("file system is not mounted")
	}
	if n >= fs.meta.Inodes {
		return Inode{}, dskerrors.ErrArgumentOutOfRange.WithMessage("inode number out of range")
	}

	block, slot := inodeLocation(n)
	buf := make([]byte, BlockSize)
	if _, err := fs.disk.Read(block, buf); err != nil {
		return Inode{}, dskerrors.ErrIOFailed.WrapError(err)
	}

	inode := decodeInodeBlock(buf)[slot]
	if inode.Valid == 0 {
		return Inode{}, dskerrors.ErrNotFound.WithMessage("inode is not allocated")
	}
	return inode, nil
}

// saveInode writes inode into slot n's inode block, read-modify-write, since
// a block holds InodesPerBlock records (spec §4.4).
func (fs *FileSystem) saveInode(n uint32, inode Inode) dskerrors.DriverError {
	if !fs.IsMounted() {
		panic("file system is not mounted")
	}
	if n >= fs.meta.Inodes {
		return dskerrors.ErrArgumentOutOfRange.WithMessage("inode number out of range")
	}

	block, slot := inodeLocation(n)
	buf := make([]byte, BlockSize)
	if _, err := fs.disk.Read(block, buf); err != nil {
		return dskerrors.ErrIOFailed.WrapError(err)
	}

	inodes := decodeInodeBlock(buf)
	inodes[slot] = inode
	if _, err := fs.disk.Write(block, encodeInodeBlock(inodes)); err != nil {
		return dskerrors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// Create allocates the first free inode slot, in table order (block 1
// upward, slot 0 upward), and returns its number. It returns -1 if the
// inode table is full (spec §4.5).
func (fs *FileSystem) Create() int64 {
	if !fs.IsMounted() {
		panic("file system is not mounted")
	}

	buf := make([]byte, BlockSize)
	for block := uint32(1); block <= fs.meta.InodeBlocks; block++ {
		if _, err := fs.disk.Read(block, buf); err != nil {
			return -1
		}
		inodes := decodeInodeBlock(buf)

		for slot := uint32(0); slot < InodesPerBlock; slot++ {
			if inodes[slot].Valid != 0 {
				continue
			}

			n := (block-1)*InodesPerBlock + slot
			inodes[slot] = Inode{Valid: 1}
			if _, err := fs.disk.Write(block, encodeInodeBlock(inodes)); err != nil {
				return -1
			}
			return int64(n)
		}
	}

	return -1
}

// Remove releases every data block an inode holds, then marks the inode
// slot free (spec §4.6). There is no rollback: a disk I/O error partway
// through leaves the file system in an undefined state, as the spec allows.
func (fs *FileSystem) Remove(n uint32) dskerrors.DriverError {
	if !fs.IsMounted() {
		panic("file system is not mounted")
	}

	inode, err := fs.loadInode(n)
	if err != nil {
		return err
	}

	for i, ptr := range inode.Direct {
		if ptr == 0 {
			continue
		}
		fs.bitmap.markFree(ptr)
		inode.Direct[i] = 0
	}

	if inode.Size > PointersPerInode*BlockSize {
		buf := make([]byte, BlockSize)
		if _, err := fs.disk.Read(inode.Indirect, buf); err != nil {
			return dskerrors.ErrIOFailed.WrapError(err)
		}
		for _, ptr := range decodePointerBlock(buf) {
			if ptr != 0 {
				fs.bitmap.markFree(ptr)
			}
		}
		fs.bitmap.markFree(inode.Indirect)
	}

	inode.Valid = 0
	inode.Size = 0
	inode.Indirect = 0
	return fs.saveInode(n, inode)
}

// Stat returns the size, in bytes, of inode n, or -1 if it is not allocated.
func (fs *FileSystem) Stat(n uint32) int64 {
	if !fs.IsMounted() {
		panic("file system is not mounted")
	}

	inode, err := fs.loadInode(n)
	if err != nil {
		return -1
	}
	return int64(inode.Size)
}
