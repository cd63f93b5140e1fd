package borrowrequests

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

// Project overlays the journal statuses, filters by status and sorts newest first.
func Project(history core.DomainEvents, requests []core.BorrowRequest, status core.RequestStatus) Listing {
	effective := shell.WithEffectiveStatus(history, requests)

	filtered := make([]core.BorrowRequest, 0, len(effective))
	for _, request := range effective {
		if status == "" || request.Status == status {
			filtered = append(filtered, request)
		}
	}

	sorted := core.SortNewestFirst(filtered)

	return Listing{Requests: sorted, Count: len(sorted)}
}
