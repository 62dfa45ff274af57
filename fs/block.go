package fs

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	"github.com/dargueta/simplefs/disk"
)

// BlockSize is the size, in bytes, of every block — the same unit the disk
// emulator transfers.
const BlockSize = disk.BlockSize

// MagicNumber identifies a formatted SimpleFS image.
const MagicNumber uint32 = 0xf0f03410

// PointersPerInode is the number of direct data-block pointers an inode
// carries.
const PointersPerInode = 5

// PointersPerBlock is the number of 32-bit block pointers that fit in one
// indirect block.
const PointersPerBlock = BlockSize / 4

// inodeRecordSize is the on-disk size of one Inode record: valid + size +
// 5 direct pointers + indirect pointer, all uint32.
const inodeRecordSize = 4 + 4 + PointersPerInode*4 + 4

// InodesPerBlock is the number of Inode records that fit in one block.
const InodesPerBlock = BlockSize / inodeRecordSize

// MaxFileSize is the largest size, in bytes, an inode can represent using its
// direct and single-level indirect pointers.
const MaxFileSize = (PointersPerInode + PointersPerBlock) * BlockSize

// SuperBlock is the block-0 metadata record describing the rest of the image.
type SuperBlock struct {
	MagicNumber uint32
	Blocks      uint32
	InodeBlocks uint32
	Inodes      uint32
}

// Inode is the 32-byte on-disk file record. Valid is 0 for a free slot, 1 for
// an allocated one. When Valid is 0 every other field must be zero.
type Inode struct {
	Valid    uint32
	Size     uint32
	Direct   [PointersPerInode]uint32
	Indirect uint32
}

// encodeSuperBlock serializes sb into a full BlockSize-byte buffer suitable
// for disk.Write. Bytes beyond the four meaningful fields are zeroed.
func encodeSuperBlock(sb SuperBlock) []byte {
	buf := make([]byte, BlockSize)
	writer := bytewriter.New(buf)
	binary.Write(writer, binary.LittleEndian, &sb)
	return buf
}

// decodeSuperBlock reads the superblock out of a block-0-sized buffer.
func decodeSuperBlock(buf []byte) SuperBlock {
	var sb SuperBlock
	binary.Read(bytes.NewReader(buf), binary.LittleEndian, &sb)
	return sb
}

// encodeInodeBlock serializes InodesPerBlock inode records into a full
// BlockSize-byte buffer.
func encodeInodeBlock(inodes [InodesPerBlock]Inode) []byte {
	buf := make([]byte, BlockSize)
	writer := bytewriter.New(buf)
	for i := range inodes {
		binary.Write(writer, binary.LittleEndian, &inodes[i])
	}
	return buf
}

// decodeInodeBlock reads InodesPerBlock inode records out of a block-sized
// buffer.
func decodeInodeBlock(buf []byte) [InodesPerBlock]Inode {
	var inodes [InodesPerBlock]Inode
	reader := bytes.NewReader(buf)
	for i := range inodes {
		binary.Read(reader, binary.LittleEndian, &inodes[i])
	}
	return inodes
}

// encodePointerBlock serializes PointersPerBlock uint32 block numbers into a
// full BlockSize-byte buffer.
func encodePointerBlock(pointers [PointersPerBlock]uint32) []byte {
	buf := make([]byte, BlockSize)
	writer := bytewriter.New(buf)
	binary.Write(writer, binary.LittleEndian, &pointers)
	return buf
}

// decodePointerBlock reads PointersPerBlock uint32 block numbers out of a
// block-sized buffer.
func decodePointerBlock(buf []byte) [PointersPerBlock]uint32 {
	var pointers [PointersPerBlock]uint32
	binary.Read(bytes.NewReader(buf), binary.LittleEndian, &pointers)
	return pointers
}
