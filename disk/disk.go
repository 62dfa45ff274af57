// Package disk implements the block-addressed emulator that every SimpleFS
// layer above it is built on: a fixed-size array of BlockSize-byte blocks
// backed by a single host file.
package disk

import (
	"io"
	"log"

	dskerrors "github.com/dargueta/simplefs/errors"
)

// BlockSize is the size, in bytes, of every block on a SimpleFS disk.
const BlockSize = 4096

// Disk is a block-addressed view of a host file. It does not create or
// truncate the underlying file; the caller must ensure it is already at
// least Blocks*BlockSize bytes long.
type Disk struct {
	stream io.ReadWriteSeeker
	Blocks uint32
	reads  uint64
	writes uint64
}

// Open acquires a Disk over the given stream, which must already be at least
// blocks*BlockSize bytes long. It does not create, truncate, or otherwise
// modify the stream.
func Open(stream io.ReadWriteSeeker, blocks uint32) *Disk {
	return &Disk{stream: stream, Blocks: blocks}
}

// Close releases the disk, logging the final read/write counters the way
// the original emulator's disk_close reported them.
func (d *Disk) Close() {
	log.Printf("closing disk, reads: %d, writes: %d", d.reads, d.writes)
	d.stream = nil
}

// Reads returns the number of successful block reads performed so far.
func (d *Disk) Reads() uint64 { return d.reads }

// Writes returns the number of successful block writes performed so far.
func (d *Disk) Writes() uint64 { return d.writes }

func (d *Disk) sanityCheck(block uint32, buf []byte) dskerrors.DriverError {
	if d == nil || d.stream == nil {
		return dskerrors.ErrIOFailed.WithMessage("disk is not open")
	}
	if block >= d.Blocks {
		return dskerrors.ErrArgumentOutOfRange.WithMessage("block number out of range")
	}
	if buf == nil {
		return dskerrors.ErrInvalidArgument.WithMessage("buffer must not be nil")
	}
	if len(buf) < BlockSize {
		return dskerrors.ErrInvalidArgument.WithMessage("buffer must be at least BlockSize bytes")
	}
	return nil
}

// Read transfers exactly BlockSize bytes from the given block into buf, which
// must be at least BlockSize bytes long. It returns the number of bytes
// transferred. On failure it returns a DriverError; a short read from the
// stream is reported with the partial count it actually transferred.
func (d *Disk) Read(block uint32, buf []byte) (int, dskerrors.DriverError) {
	if err := d.sanityCheck(block, buf); err != nil {
		return 0, err
	}

	if _, err := d.stream.Seek(int64(block)*BlockSize, io.SeekStart); err != nil {
		return 0, dskerrors.ErrIOFailed.WrapError(err)
	}

	n, err := io.ReadFull(d.stream, buf[:BlockSize])
	if err != nil {
		return n, dskerrors.ErrIOFailed.WrapError(err)
	}

	d.reads++
	return n, nil
}

// Write transfers exactly BlockSize bytes from buf to the given block. buf
// must be at least BlockSize bytes long.
func (d *Disk) Write(block uint32, buf []byte) (int, dskerrors.DriverError) {
	if err := d.sanityCheck(block, buf); err != nil {
		return 0, err
	}

	if _, err := d.stream.Seek(int64(block)*BlockSize, io.SeekStart); err != nil {
		return 0, dskerrors.ErrIOFailed.WrapError(err)
	}

	n, err := d.stream.Write(buf[:BlockSize])
	if err != nil {
		return n, dskerrors.ErrIOFailed.WrapError(err)
	}

	d.writes++
	return n, nil
}
