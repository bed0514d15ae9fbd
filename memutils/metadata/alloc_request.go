package metadata

// AllocationRequest is a type returned from BlockMetadata.CreateAllocationRequest which indicates where the
// metadata intends to place a new allocation. Creating a request does not change the metadata; the request
// is committed with BlockMetadata.Alloc.
type AllocationRequest struct {
	// BlockAllocationHandle is the handle the allocation will have once committed
	BlockAllocationHandle BlockAllocationHandle
	// Size is the number of bytes originally requested by the consumer
	Size int
	// Item is the byte range the allocation will occupy. Item.Size is Size rounded up to a whole
	// number of blocks.
	Item Suballocation
	// BlockIndex is the index of the first block of the allocation
	BlockIndex int
	// BlockCount is the number of blocks the allocation will occupy
	BlockCount int
}
