package usecase

const (
	// DefaultWorkers processes transactions sequentially.
	DefaultWorkers = 1

	// shardBuffer is the channel capacity of each worker when processing is
	// sharded by client id.
	shardBuffer = 256
)
