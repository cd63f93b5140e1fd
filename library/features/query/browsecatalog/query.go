package browsecatalog

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	queryType = "BrowseCatalog"
)

// Query represents the intent to browse the catalog. Viewer may be the zero session.
type Query struct {
	Filter Filter
	Viewer session.Session
}

func BuildQuery(filter Filter, viewer session.Session) Query {
	return Query{
		Filter: filter,
		Viewer: viewer,
	}
}

func (q Query) QueryType() string {
	return queryType
}
