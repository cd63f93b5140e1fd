package borrowrequests

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

type Listing struct {
	Requests []core.BorrowRequest `json:"requests"`
	Count    int                  `json:"count"`
}
