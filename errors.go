package species

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Error taxonomy for the engine (spec §7). Every concrete error type
// embeds the handle ID of the grammar that raised it so a caller juggling
// several grammars can tell them apart, the same way the dao/sqlite and
// server packages in this codebase's lineage stamp a uuid.UUID onto every
// unit of work they hand back errors about.
//
// Each type follows internal/tqerrors's shape: a struct that implements
// error and Unwrap. There are no constructor functions; the engine fills
// the fields directly. Unwrap returns a package-level sentinel, which
// lets callers use errors.Is without caring about the wrapped details.

var (
	// ErrMalformedGrammar is the sentinel for MalformedGrammarError.
	ErrMalformedGrammar = fmt.Errorf("malformed grammar")
	// ErrNonProductiveRule is the sentinel for NonProductiveRuleError.
	ErrNonProductiveRule = fmt.Errorf("non-productive rule")
	// ErrGrammarNotInitialised is the sentinel for GrammarNotInitialisedError.
	ErrGrammarNotInitialised = fmt.Errorf("grammar not initialised")
	// ErrUnknownKey is the sentinel for UnknownKeyError.
	ErrUnknownKey = fmt.Errorf("unknown key")
	// ErrDuplicateLabel is the sentinel for DuplicateLabelError.
	ErrDuplicateLabel = fmt.Errorf("duplicate label")
	// ErrRankOutOfRange is the sentinel for RankOutOfRangeError.
	ErrRankOutOfRange = fmt.Errorf("rank out of range")
	// ErrEmptyClass is the sentinel for EmptyClassError.
	ErrEmptyClass = fmt.Errorf("empty class")
	// ErrCancelled is the sentinel for CancelledError.
	ErrCancelled = fmt.Errorf("cancelled")
)

// MalformedGrammarError reports that a rule refers to a key the grammar
// does not define (invariant I1).
type MalformedGrammarError struct {
	Handle  uuid.UUID
	Missing string
}

func (e *MalformedGrammarError) Error() string {
	return fmt.Sprintf("grammar %s: rule references undefined key %q", e.Handle, e.Missing)
}

func (e *MalformedGrammarError) Unwrap() error { return ErrMalformedGrammar }

// NonProductiveRuleError reports that a rule's valuation fixpoint never
// reached a finite value (invariant I2).
type NonProductiveRuleError struct {
	Handle uuid.UUID
	Key    string
}

func (e *NonProductiveRuleError) Error() string {
	return fmt.Sprintf("grammar %s: rule %q is non-productive", e.Handle, e.Key)
}

func (e *NonProductiveRuleError) Unwrap() error { return ErrNonProductiveRule }

// GrammarNotInitialisedError reports that an operation other than Init
// was invoked on a grammar that is not in the Ready state.
type GrammarNotInitialisedError struct {
	Handle uuid.UUID
	State  State
}

func (e *GrammarNotInitialisedError) Error() string {
	return fmt.Sprintf("grammar %s: not ready to serve queries (state is %s)", e.Handle, e.State)
}

func (e *GrammarNotInitialisedError) Unwrap() error { return ErrGrammarNotInitialised }

// UnknownKeyError reports a query against a key the grammar does not
// define.
type UnknownKeyError struct {
	Handle uuid.UUID
	Key    string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("grammar %s: unknown key %q", e.Handle, e.Key)
}

func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

// DuplicateLabelError reports that List/Unrank/Sample was called with a
// label list containing a repeated label.
type DuplicateLabelError struct {
	Handle uuid.UUID
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("grammar %s: label list contains a duplicate label", e.Handle)
}

func (e *DuplicateLabelError) Unwrap() error { return ErrDuplicateLabel }

// RankOutOfRangeError reports that an index i given to Unrank/Sample is
// not a valid rank for the requested class and size.
type RankOutOfRangeError struct {
	Handle uuid.UUID
	Key    string
	N      int
	I      *big.Int
	Count  *big.Int
}

func (e *RankOutOfRangeError) Error() string {
	return fmt.Sprintf("grammar %s: rank %s out of range [0, %s) for %q at size %d", e.Handle, e.I, e.Count, e.Key, e.N)
}

func (e *RankOutOfRangeError) Unwrap() error { return ErrRankOutOfRange }

// EmptyClassError reports that Sample was invoked on a class with no
// objects of the requested size.
type EmptyClassError struct {
	Handle uuid.UUID
	Key    string
	N      int
}

func (e *EmptyClassError) Error() string {
	return fmt.Sprintf("grammar %s: class %q has no objects of size %d", e.Handle, e.Key, e.N)
}

func (e *EmptyClassError) Unwrap() error { return ErrEmptyClass }

// CancelledError reports that a cooperative cancellation was observed
// mid-operation. It keeps the context's cause in Cause, and in its
// message, so callers can still see why the operation was cancelled.
// Unwrap returns ErrCancelled only; errors.Is does not match the cause.
type CancelledError struct {
	Handle uuid.UUID
	Cause  error
}

func (e *CancelledError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("grammar %s: cancelled: %s", e.Handle, e.Cause)
	}
	return fmt.Sprintf("grammar %s: cancelled", e.Handle)
}

func (e *CancelledError) Unwrap() error { return ErrCancelled }
