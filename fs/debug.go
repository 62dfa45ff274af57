package fs

import (
	"fmt"
	"io"

	"github.com/dargueta/simplefs/disk"
)

// Debug prints the superblock and every valid inode's number, size, and
// pointer counts to w, following the line-exact grammar of spec §6. It is
// read-only and does not require a FileSystem to be mounted.
func Debug(d *disk.Disk, w io.Writer) error {
	buf := make([]byte, BlockSize)
	if _, err := d.Read(0, buf); err != nil {
		return err
	}
	sb := decodeSuperBlock(buf)

	magicState := "invalid"
	if sb.MagicNumber == MagicNumber {
		magicState = "valid"
	}

	fmt.Fprintf(w, "SuperBlock:\n")
	fmt.Fprintf(w, "    magic number is %s\n", magicState)
	fmt.Fprintf(w, "    %d blocks\n", sb.Blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", sb.InodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", sb.Inodes)

	indirectBuf := make([]byte, BlockSize)
	for block := uint32(1); block <= sb.InodeBlocks; block++ {
		if _, err := d.Read(block, buf); err != nil {
			return err
		}
		inodes := decodeInodeBlock(buf)

		for slot, inode := range inodes {
			if inode.Valid == 0 {
				continue
			}

			n := (block-1)*InodesPerBlock + uint32(slot)
			directCount := 0
			for _, ptr := range inode.Direct {
				if ptr != 0 {
					directCount++
				}
			}

			fmt.Fprintf(w, "Inode %d\n", n)
			fmt.Fprintf(w, "    size: %d bytes\n", inode.Size)
			fmt.Fprintf(w, "    direct blocks: %d\n", directCount)

			if inode.Indirect == 0 {
				continue
			}

			fmt.Fprintf(w, "    indirect block: %d\n", inode.Indirect)

			indirectCount := 0
			if _, err := d.Read(inode.Indirect, indirectBuf); err == nil {
				for _, ptr := range decodePointerBlock(indirectBuf) {
					if ptr != 0 {
						indirectCount++
					}
				}
			}
			fmt.Fprintf(w, "    indirect data blocks: %d\n", indirectCount)
		}
	}

	return nil
}
