package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithCapacity bounds the board to the best n entries. Zero or less keeps every entry.
func WithCapacity(n int) Option {
	return func(s *TreapStore) {
		s.capacity = max(0, n)
	}
}

// WithSeed seeds the treap priorities.
func WithSeed(seed uint64) Option {
	return func(s *TreapStore) {
		s.seed = seed
	}
}
