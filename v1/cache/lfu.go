package cache

// LFUCache provides a cache with a least-frequently-used eviction policy.
//
// It is backed by Ristretto which implements a TinyLFU algorithm.
type LFUCache[T any] struct {
	*RistrettoCache[T]
}

// NewLFU returns a new LFUCache instance.
//
// It reuses the Ristretto implementation under the hood.
func NewLFU[T any](capacity int, opts ...RistrettoOption) (*LFUCache[T], error) {
	rc, err := NewRistretto[T](capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &LFUCache[T]{rc}, nil
}
