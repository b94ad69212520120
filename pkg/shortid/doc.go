// Package shortid generates time-ordered identifiers in three widths from one
// timestamp/sequence/worker engine.
//
// # Formats
//
// All layouts are big-endian.
//
//	ID128 (16 bytes)  time-low(32) time-mid(16) ver(4)+time-high(12)
//	                  var(2)+seq-high(6) seq-low(8) worker(16) machine(32)
//	ID96  (12 bytes)  timestamp(42) sequence(14) worker(16) machine(24)
//	ID64  (8 bytes)   timestamp(42) sequence(14) worker(8)
//
// ID128 is a valid RFC 4122 version 1 UUID. The compact formats store
// (tick - epoch) >> 13, i.e. 819.2us resolution over a ~114 year window
// starting at a caller supplied Epoch.
//
// # Workers
//
// A Worker is the unit of ownership: it carries an identity handed out by a
// Registry and its own timestamp/sequence state. A Worker must be used by a
// single goroutine at a time. Generator hands out Workers for long-lived use
// and also offers stateless calls that borrow an idle Worker per call.
//
// Shared is the alternative path: one timestamp/sequence pair for the whole
// process, advanced with compare-and-swap.
//
// Usage
//
//	g := shortid.New()
//	w, err := g.NewWorker()
//	if err != nil { ... }
//	id, err := w.Next128([4]byte{10, 0, 0, 1})
//	fmt.Println(id) // canonical UUID text
//
//	small, err := g.Generate64(shortid.EpochFromTime(start))
package shortid
