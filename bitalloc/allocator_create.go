package bitalloc

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/bitarena/bitalloc/internal/utils"
	"github.com/vkngwrapper/bitarena/memutils"
	"github.com/vkngwrapper/bitarena/memutils/metadata"
	"github.com/vkngwrapper/core/v2/common"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

var allocatorCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	allocatorCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return allocatorCreateFlagsMapping.FlagsToString(f)
}

const (
	// AllocatorCreateExternallySynchronized ensures that this allocator will not be synchronized internally.
	// The consumer must guarantee it is used from only one goroutine at a time or is synchronized by some
	// other mechanism, but performance may improve because internal mutexes are not used.
	AllocatorCreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	AllocatorCreateExternallySynchronized.Register("AllocatorCreateExternallySynchronized")
}

const (
	// DefaultWordBits is the bitmap word width used when none is provided via CreateOptions
	DefaultWordBits int = 16
	// defaultName labels the metrics of allocators created without a name
	defaultName string = "default"
)

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags
	// WordBits is the number of bits packed into each bitmap word: 8, 16, 32 or 64. Wider words
	// make scanning cheaper and may round the bitmaps up to a larger size. It never changes where
	// allocations are placed. Zero selects DefaultWordBits.
	WordBits int
	// Name identifies the allocator in logs, statistics and metric labels
	Name string
	// Registerer, if provided, receives the allocator's prometheus metrics. They are unregistered
	// by Destroy. Live allocators sharing a Registerer must have distinct names.
	Registerer prometheus.Registerer
}

// New creates a new Allocator over memory, which is partitioned into blocks of blockSize bytes after
// space for the allocation bitmaps is taken from its front.
//
// logger - Receives debug logging for allocator operations. May be nil.
//
// memory - The region to manage. It must be zero-filled, and the caller must keep it alive and
// untouched (outside of allocated ranges) for the lifetime of the Allocator. A region too small to
// hold the bitmaps produces an allocator on which every allocation fails.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, blockSize int, memory []byte, options CreateOptions) (*Allocator, error) {
	if blockSize <= 0 {
		return nil, errors.Wrapf(memutils.InvalidBlockSizeError, "block size is %d", blockSize)
	}

	wordBits := options.WordBits
	if wordBits == 0 {
		wordBits = DefaultWordBits
	}

	md, err := newBitmapMetadata(wordBits, blockSize)
	if err != nil {
		return nil, err
	}

	return newAllocator(logger, md, memory, options)
}

func newBitmapMetadata(wordBits int, blockSize int) (metadata.BlockMetadata, error) {
	err := memutils.CheckPow2(wordBits, "CreateOptions.WordBits")
	if err != nil {
		return nil, err
	}

	switch wordBits {
	case 8:
		return metadata.NewBitmapBlockMetadata[uint8](blockSize)
	case 16:
		return metadata.NewBitmapBlockMetadata[uint16](blockSize)
	case 32:
		return metadata.NewBitmapBlockMetadata[uint32](blockSize)
	case 64:
		return metadata.NewBitmapBlockMetadata[uint64](blockSize)
	default:
		return nil, errors.Newf("CreateOptions.WordBits must be 8, 16, 32 or 64, but was %d", wordBits)
	}
}

func newAllocator(logger *slog.Logger, md metadata.BlockMetadata, memory []byte, options CreateOptions) (*Allocator, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}

	name := options.Name
	if name == "" {
		name = defaultName
	}

	md.Init(memory)
	layout := md.Layout()

	allocator := &Allocator{
		logger:      logger.With(slog.String("Allocator", name)),
		mutex:       utils.OptionalRWMutex{UseMutex: options.Flags&AllocatorCreateExternallySynchronized == 0},
		name:        name,
		createFlags: options.Flags,
		blockSize:   md.BlockSize(),
		metadata:    md,
		storage:     memory[layout.StorageOffset : layout.StorageOffset+layout.StorageSize : layout.StorageOffset+layout.StorageSize],
		registerer:  options.Registerer,
		metrics:     newAllocatorMetrics(name),
	}
	allocator.metrics.capacityBlocks.Set(float64(layout.BlockCount))

	if allocator.registerer != nil {
		err := allocator.metrics.register(allocator.registerer)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to register metrics for allocator %s", name)
		}
	}

	allocator.logger.Debug("Allocator::New",
		slog.Int("BlockSize", allocator.blockSize),
		slog.Int("BlockCount", layout.BlockCount),
		slog.Int("BitmapBytes", layout.BitmapBytes),
		slog.String("Flags", options.Flags.String()),
	)

	return allocator, nil
}
