package fs

// pointerFor resolves the block number backing logical block index
// `logical`, using direct pointers for the first PointersPerInode indexes
// and the supplied indirect pointer table beyond that (spec §4.9). Callers
// must keep `logical` below PointersPerInode+PointersPerBlock; Read and
// Write enforce that by rejecting any offset/length pair reaching past
// MaxFileSize before this is ever called.
func pointerFor(inode Inode, indirect [PointersPerBlock]uint32, logical uint32) uint32 {
	if logical < PointersPerInode {
		return inode.Direct[logical]
	}
	return indirect[logical-PointersPerInode]
}

// Read copies up to length bytes from inode n, starting at offset, into buf.
// It returns the number of bytes read, or -1 on failure (spec §4.9).
func (fs *FileSystem) Read(n uint32, buf []byte, length uint32, offset uint32) int64 {
	if !fs.IsMounted() {
		panic("file system is not mounted")
	}

	if offset >= MaxFileSize {
		return -1
	}

	inode, err := fs.loadInode(n)
	if err != nil {
		return -1
	}

	if offset >= inode.Size {
		return 0
	}
	if remaining := inode.Size - offset; length > remaining {
		length = remaining
	}
	if remaining := uint32(MaxFileSize) - offset; length > remaining {
		length = remaining
	}
	if length == 0 {
		return 0
	}

	var indirect [PointersPerBlock]uint32
	indirectLoaded := false
	scratch := make([]byte, BlockSize)

	logicalBlock := offset / BlockSize
	byteInBlock := offset % BlockSize
	var totalRead uint32

	for totalRead < length {
		if logicalBlock >= PointersPerInode && !indirectLoaded {
			if inode.Indirect == 0 {
				return -1
			}
			if _, err := fs.disk.Read(inode.Indirect, scratch); err != nil {
				return -1
			}
			indirect = decodePointerBlock(scratch)
			indirectLoaded = true
		}

		ptr := pointerFor(inode, indirect, logicalBlock)
		if ptr == 0 {
			return -1
		}

		if _, err := fs.disk.Read(ptr, scratch); err != nil {
			return -1
		}

		toCopy := BlockSize - byteInBlock
		if remaining := length - totalRead; toCopy > remaining {
			toCopy = remaining
		}
		copy(buf[totalRead:totalRead+toCopy], scratch[byteInBlock:byteInBlock+toCopy])

		totalRead += toCopy
		logicalBlock++
		byteInBlock = 0
	}

	return int64(totalRead)
}

// Write copies length bytes from data into inode n starting at offset,
// allocating data (and, if needed, indirect) blocks on demand. It returns
// the number of bytes actually written, or -1 on failure (spec §4.10). The
// count is less than length when length exceeds len(data), when
// offset+length would pass MaxFileSize, or when the disk ran out of free
// blocks partway through.
func (fs *FileSystem) Write(n uint32, data []byte, length uint32, offset uint32) int64 {
	if !fs.IsMounted() {
		panic("file system is not mounted")
	}

	if offset >= MaxFileSize {
		return -1
	}

	inode, err := fs.loadInode(n)
	if err != nil {
		return -1
	}
	if length > uint32(len(data)) {
		length = uint32(len(data))
	}
	if remaining := uint32(MaxFileSize) - offset; length > remaining {
		length = remaining
	}

	var indirect [PointersPerBlock]uint32
	indirectLoaded := false
	indirectDirty := false

	logicalBlock := offset / BlockSize
	byteInBlock := offset % BlockSize
	var totalWritten uint32
	scratch := make([]byte, BlockSize)

	for totalWritten < length {
		usingIndirect := logicalBlock >= PointersPerInode

		if usingIndirect && !indirectLoaded {
			if inode.Indirect != 0 {
				if _, err := fs.disk.Read(inode.Indirect, scratch); err != nil {
					return -1
				}
				indirect = decodePointerBlock(scratch)
			} else {
				indirect = [PointersPerBlock]uint32{}
			}
			indirectLoaded = true
		}

		ptr := pointerFor(inode, indirect, logicalBlock)

		if ptr == 0 {
			allocated, allocErr := fs.bitmap.allocate()
			if allocErr != nil {
				break
			}
			ptr = allocated

			if usingIndirect {
				if inode.Indirect == 0 {
					indirectBlock, allocErr := fs.bitmap.allocate()
					if allocErr != nil {
						fs.bitmap.markFree(ptr)
						break
					}
					inode.Indirect = indirectBlock
				}
				indirect[logicalBlock-PointersPerInode] = ptr
				indirectDirty = true
			} else {
				inode.Direct[logicalBlock] = ptr
			}
		}

		toCopy := BlockSize - byteInBlock
		if remaining := length - totalWritten; toCopy > remaining {
			toCopy = remaining
		}

		isPartial := byteInBlock != 0 || toCopy < BlockSize
		if isPartial {
			if _, err := fs.disk.Read(ptr, scratch); err != nil {
				return -1
			}
		}
		copy(scratch[byteInBlock:byteInBlock+toCopy], data[totalWritten:totalWritten+toCopy])

		if _, err := fs.disk.Write(ptr, scratch); err != nil {
			return -1
		}

		totalWritten += toCopy
		logicalBlock++
		byteInBlock = 0
	}

	if totalWritten == 0 {
		return 0
	}

	if newSize := offset + totalWritten; newSize > inode.Size {
		inode.Size = newSize
	}
	if indirectDirty {
		if _, err := fs.disk.Write(inode.Indirect, encodePointerBlock(indirect)); err != nil {
			return -1
		}
	}
	if err := fs.saveInode(n, inode); err != nil {
		return -1
	}

	return int64(totalWritten)
}
