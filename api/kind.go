// File: api/kind.go
// Author: momentics <momentics@gmail.com>
//
// Mutex kind attribute, fixed at creation.

package api

import "fmt"

// Kind selects mutex behavior at creation time. Values combine as a bitmask:
// KindPlain|KindRecursive requests a recursive non-timed mutex.
type Kind int

const (
	// KindPlain is a simple non-recursive lock.
	KindPlain Kind = 0
	// KindRecursive lets the owning thread nest acquisitions, one unlock
	// per lock.
	KindRecursive Kind = 1
	// KindTimed requests bounded-wait acquisition. Not implemented in this
	// version: creation rejects the bit instead of degrading to plain.
	KindTimed Kind = 2
)

// kindMask covers every defined bit.
const kindMask = KindRecursive | KindTimed

// Has reports whether flag is set in k.
func (k Kind) Has(flag Kind) bool { return k&flag != 0 }

// Defined reports whether k contains only defined bits.
func (k Kind) Defined() bool { return k&^kindMask == 0 }

// String names the kind combination.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindRecursive:
		return "recursive"
	case KindTimed:
		return "timed"
	case KindTimed | KindRecursive:
		return "timed|recursive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}
