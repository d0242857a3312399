package evaluation

import "errors"

// Sentinel kinds for evaluation errors.
var (
	ErrUnknownTestType = errors.New("unknown test type")
)
