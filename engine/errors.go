/*
errors.go - Engine contract errors

PURPOSE:
  The engine's designed failure modes never surface as Go errors: problems
  in the input data become Validator issues, and holiday-source failures
  become a LoadStatus. The errors here exist only for programming-contract
  violations, which fail loudly instead of returning wrong numbers.
*/
package engine

import "errors"

var (
	// ErrNotProcessed is returned by balance and aggregation queries when
	// ProcessEntries has not run on this engine instance.
	ErrNotProcessed = errors.New("engine: entries not processed")

	// ErrInvalidRange is returned when a balance range ends before it starts.
	ErrInvalidRange = errors.New("engine: invalid range: end before start")
)
