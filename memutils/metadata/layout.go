package metadata

import (
	"github.com/vkngwrapper/bitarena/memutils"
	"github.com/vkngwrapper/bitarena/memutils/bitmap"
)

// Layout describes how a memory region is partitioned between the two allocation bitmaps and block
// storage. The used bitmap starts at offset 0, the heads bitmap at HeadsOffset, and block storage at
// StorageOffset.
type Layout struct {
	// BlockSize is the size in bytes of a single block
	BlockSize int
	// RegionSize is the size in bytes of the whole region
	RegionSize int
	// TotalBlocks is the number of blocks the whole region could hold with no bitmaps
	TotalBlocks int
	// WordBytes is the size in bytes of a single bitmap word
	WordBytes int
	// BitmapWords is the number of words in each of the two bitmaps
	BitmapWords int
	// BitmapBytes is the combined size in bytes of both bitmaps
	BitmapBytes int
	// HeadsOffset is the offset in bytes of the heads bitmap
	HeadsOffset int
	// StorageOffset is the offset in bytes of block storage
	StorageOffset int
	// StorageSize is the size in bytes of block storage, always BlockCount * BlockSize
	StorageSize int
	// BlockCount is the number of usable blocks
	BlockCount int
}

// ComputeLayout partitions a region of regionSize bytes into bitmaps of W-bit words and blocks of
// blockSize bytes. The bitmaps are sized for every block the whole region could hold, so they may cover
// more bits than there are usable blocks once their own space is taken. A region too small to hold the
// bitmaps produces a layout with no usable blocks.
//
// blockSize must be positive.
func ComputeLayout[W bitmap.Word](blockSize, regionSize int) Layout {
	layout := Layout{
		BlockSize:  blockSize,
		RegionSize: regionSize,
		WordBytes:  bitmap.WordBytes[W](),
	}
	memutils.DebugCheckPow2(layout.WordBytes, "bitmap word bytes")
	if regionSize <= 0 {
		return layout
	}

	layout.TotalBlocks = regionSize / blockSize
	layout.BitmapWords = memutils.DivRoundUp(layout.TotalBlocks, bitmap.WordBits[W]())
	layout.BitmapBytes = 2 * layout.BitmapWords * layout.WordBytes
	layout.HeadsOffset = layout.BitmapBytes / 2

	if layout.BitmapBytes > regionSize {
		layout.HeadsOffset = regionSize
		layout.StorageOffset = regionSize
		return layout
	}

	layout.StorageOffset = layout.BitmapBytes
	layout.BlockCount = (regionSize - layout.BitmapBytes) / blockSize
	layout.StorageSize = layout.BlockCount * blockSize

	return layout
}

// Degenerate reports whether the region can never satisfy an allocation
func (l Layout) Degenerate() bool {
	return l.BlockCount == 0
}
