package tuplekv

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run inline on reads
// and commits. Storage keys are raw packed bytes held in a string.
type Hooks interface {
	// A stored entry was deleted by the store on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// The version source failed to reserve a commit version.
	VersionSourceError(err error)

	// A scanned key under the namespace did not decode as a tuple.
	UndecodableKey(storageKey string, err error)

	// A commit stopped after applied of total mutations.
	CommitFailed(version uint64, applied, total int, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)              {}
func (NopHooks) ProviderSetRejected(string)           {}
func (NopHooks) VersionSourceError(error)             {}
func (NopHooks) UndecodableKey(string, error)         {}
func (NopHooks) CommitFailed(uint64, int, int, error) {}
