package reconcileavailability

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Report lists what a pass did and what it only found.
type Report struct {
	RedrivenTransitions []core.RequestIDString    `json:"redrivenTransitions"`
	RepairedStatuses    []core.RequestIDString    `json:"repairedStatuses"`
	FlippedBooks        []core.BookIDString       `json:"flippedBooks"`
	ClosedClaims        []core.SubmissionIDString `json:"closedClaims"`
	DriftedBooks        []core.BookIDString       `json:"driftedBooks"`
	Failures            []string                  `json:"failures"`
}

func newReport() Report {
	return Report{
		RedrivenTransitions: make([]core.RequestIDString, 0),
		RepairedStatuses:    make([]core.RequestIDString, 0),
		FlippedBooks:        make([]core.BookIDString, 0),
		ClosedClaims:        make([]core.SubmissionIDString, 0),
		DriftedBooks:        make([]core.BookIDString, 0),
		Failures:            make([]string, 0),
	}
}

// Repairs counts the writes the pass made.
func (r Report) Repairs() int {
	return len(r.RedrivenTransitions) + len(r.RepairedStatuses) + len(r.FlippedBooks) + len(r.ClosedClaims)
}

// IsClean is true when there was nothing to repair, nothing to report and nothing failed.
func (r Report) IsClean() bool {
	return r.Repairs() == 0 && len(r.DriftedBooks) == 0 && len(r.Failures) == 0
}
