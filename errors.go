package swrn

import (
	"errors"
	"fmt"
)

// ErrNotIndexed is returned by store queries before any build has run.
var ErrNotIndexed = errors.New("index not built")

// ErrCorpus reports a problem with the release-notes folder.
type ErrCorpus struct {
	Folder string
	Reason string
}

func (e *ErrCorpus) Error() string {
	return fmt.Sprintf("corpus %s: %s", e.Folder, e.Reason)
}

// ErrPRNotFound reports a PR number absent from the index.
type ErrPRNotFound struct {
	PR string
}

func (e *ErrPRNotFound) Error() string {
	return fmt.Sprintf("PR-%s: not found in index", e.PR)
}
