package entities

import "errors"

// Outcome classifies the result of a visited-list mutation.
type Outcome string

// Mutation outcomes.
const (
	OutcomeAdded        Outcome = "added"
	OutcomeRemoved      Outcome = "removed"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeNotInVisited Outcome = "not_in_visited"
)

// Succeeded reports whether the mutation changed the visited list.
func (o Outcome) Succeeded() bool {
	return o == OutcomeAdded || o == OutcomeRemoved
}

// Sentinel errors shared by stores and services.
var (
	// ErrCountryNotFound means a name did not resolve to a reference country.
	ErrCountryNotFound = errors.New("country not found")
	// ErrAlreadyVisited is returned by stores when the code is already recorded.
	ErrAlreadyVisited = errors.New("country already visited")
	// ErrStorageUnavailable wraps connection and query failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StorageError joins err with ErrStorageUnavailable so callers can match
// either with errors.Is.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return errors.Join(ErrStorageUnavailable, err)
}
