package storage

// RateStore is the read and replace surface of the exchange rate cache.
type RateStore interface {
	CurrentVersion() string
	CurrentRatesAsJSON() string
	RateFor(key string) (float64, bool)
	Snapshot() Snapshot

	// Replace commits version and raw together, or resets the store to the
	// empty state when either is unusable.
	Replace(version string, raw []byte) bool
	Reset()
}
