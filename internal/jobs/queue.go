package jobs

// AssetQueue provides an abstraction for enqueueing background asset work.
type AssetQueue interface {
	EnqueuePrefetch(urls ...string) error
	EnqueueARWarmup() error
}
