package emu

// AccessKind distinguishes loads from stores.
type AccessKind uint8

// Memory access kinds.
const (
	AccessRead AccessKind = iota
	AccessWrite
)

// String returns "read" or "write".
func (k AccessKind) String() string {
	if k == AccessWrite {
		return "write"
	}
	return "read"
}

// MemAccess describes one data memory access made by lw or sw.
type MemAccess struct {
	Kind AccessKind
	PC   uint16 // PC of the load/store instruction
	Addr uint16 // Effective address, already masked to 13 bits
}

// AccessObserver receives every data memory access. Observers cannot change
// program-visible state.
type AccessObserver interface {
	Observe(access MemAccess)
}

// AccessObserverFunc adapts a function to AccessObserver.
type AccessObserverFunc func(access MemAccess)

// Observe calls f(access).
func (f AccessObserverFunc) Observe(access MemAccess) {
	f(access)
}
