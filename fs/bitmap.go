package fs

import (
	"github.com/boljen/go-bitmap"

	dskerrors "github.com/dargueta/simplefs/errors"
)

// freeBlockBitmap is the in-memory, never-persisted allocation map described
// in spec §3 and §4.7. A set bit means the block is used (reserved metadata,
// or referenced by some inode); a clear bit means it is free. This mirrors
// the convention the teacher's Allocator uses in drivers/common/allocatormap.go.
type freeBlockBitmap struct {
	bits  bitmap.Bitmap
	total uint32
}

// newFreeBlockBitmap allocates a bitmap covering every block of the disk,
// superblock and inode table included, all initially free.
func newFreeBlockBitmap(totalBlocks uint32) *freeBlockBitmap {
	return &freeBlockBitmap{
		bits:  bitmap.New(int(totalBlocks)),
		total: totalBlocks,
	}
}

func (b *freeBlockBitmap) markUsed(block uint32) {
	b.bits.Set(int(block), true)
}

func (b *freeBlockBitmap) markFree(block uint32) {
	b.bits.Set(int(block), false)
}

func (b *freeBlockBitmap) isUsed(block uint32) bool {
	return b.bits.Get(int(block))
}

// allocate finds the lowest-index free block, marks it used, and returns it.
func (b *freeBlockBitmap) allocate() (uint32, dskerrors.DriverError) {
	for i := uint32(0); i < b.total; i++ {
		if !b.bits.Get(int(i)) {
			b.bits.Set(int(i), true)
			return i, nil
		}
	}
	return 0, dskerrors.ErrNoSpaceOnDevice.WithMessage("no free data blocks")
}

// countUsed returns the number of blocks currently marked used.
func (b *freeBlockBitmap) countUsed() int {
	count := 0
	for i := uint32(0); i < b.total; i++ {
		if b.bits.Get(int(i)) {
			count++
		}
	}
	return count
}
