package schema

import (
	"errors"
	"fmt"
)

// ErrMissingKey is returned by Must when a required top-level key is absent.
// After normalization this points at a normalizer bug, not bad input.
var ErrMissingKey = errors.New("missing key")

// Must checks that obj carries every key in keys.
func Must(obj map[string]any, keys ...string) error {
	if obj == nil {
		return fmt.Errorf("%w: document is empty", ErrMissingKey)
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingKey, k)
		}
	}
	return nil
}
