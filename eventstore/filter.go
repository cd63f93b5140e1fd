package eventstore

import (
	"slices"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter selects the events of a dynamic event stream.
// Items are combined with OR, the occurred-at bounds apply to all items.
type Filter struct {
	items         []FilterItem
	occurredFrom  time.Time
	occurredUntil time.Time
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// OccurredFrom is the inclusive lower bound, zero when unbounded.
func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

// OccurredUntil is the inclusive upper bound, zero when unbounded.
func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

// Matches evaluates the filter in memory with the same semantics the postgres engine uses:
// a predicate matches when the payload has a top-level string field with exactly that value.
func (f Filter) Matches(event StorableEvent) bool {
	if !f.occurredFrom.IsZero() && event.OccurredAt.Before(f.occurredFrom) {
		return false
	}

	if !f.occurredUntil.IsZero() && event.OccurredAt.After(f.occurredUntil) {
		return false
	}

	if len(f.items) == 0 {
		return true
	}

	var payload map[string]any
	payloadDecoded := false

	for _, item := range f.items {
		if len(item.eventTypes) > 0 && !slices.Contains(item.eventTypes, event.EventType) {
			continue
		}

		if len(item.predicates) == 0 {
			return true
		}

		if !payloadDecoded {
			payloadDecoded = true
			if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
				return false
			}
		}

		if item.predicatesMatch(payload) {
			return true
		}
	}

	return false
}

/***** FilterItem *****/

// FilterItem is one (eventTypes AND predicates) clause of a Filter.
type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi FilterItem) isEmpty() bool {
	return len(fi.eventTypes) == 0 && len(fi.predicates) == 0
}

func (fi FilterItem) predicatesMatch(payload map[string]any) bool {
	matched := 0

	for _, predicate := range fi.predicates {
		val, ok := payload[predicate.key].(string)
		if ok && val == predicate.val {
			matched++
			if !fi.allPredicatesMustMatch {
				return true
			}
		}
	}

	return fi.allPredicatesMustMatch && matched == len(fi.predicates)
}

/***** FilterPredicate *****/

// FilterPredicate is a key/value pair matched against the top level of the event payload.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder assembles a Filter. Only these shapes are possible:
//
//   - empty filter (any event)
//   - (eventType OR eventType...)
//   - (predicate OR predicate...) or (predicate AND predicate...)
//   - (eventType OR eventType...) AND (predicate OR|AND predicate...)
//   - any of the above OR-ed together via OrMatching
//
// Empty event types and partial predicates are dropped, the rest is sorted and deduplicated.
type FilterBuilder struct {
	filter  Filter
	current FilterItem
}

// BuildEventFilter starts a new FilterBuilder.
func BuildEventFilter() *FilterBuilder {
	return &FilterBuilder{}
}

// Matching starts a new FilterItem.
func (b *FilterBuilder) Matching() *FilterBuilder {
	b.closeCurrentItem()

	return b
}

// OrMatching closes the current FilterItem and starts the next one.
func (b *FilterBuilder) OrMatching() *FilterBuilder {
	return b.Matching()
}

// MatchingAnyEvent returns a filter that matches every event.
func (b *FilterBuilder) MatchingAnyEvent() Filter {
	return Filter{occurredFrom: b.filter.occurredFrom, occurredUntil: b.filter.occurredUntil}
}

// AnyEventTypeOf adds event types to the current FilterItem.
func (b *FilterBuilder) AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) *FilterBuilder {
	all := append([]FilterEventTypeString{eventType}, eventTypes...)
	b.current.eventTypes = sanitizeEventTypes(append(b.current.eventTypes, all...))

	return b
}

// AndAnyEventTypeOf is AnyEventTypeOf for builders that started with predicates.
func (b *FilterBuilder) AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) *FilterBuilder {
	return b.AnyEventTypeOf(eventType, eventTypes...)
}

// AnyPredicateOf adds predicates of which at least one has to match.
func (b *FilterBuilder) AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) *FilterBuilder {
	all := append([]FilterPredicate{predicate}, predicates...)
	b.current.predicates = sanitizePredicates(append(b.current.predicates, all...))
	b.current.allPredicatesMustMatch = false

	return b
}

// AndAnyPredicateOf is AnyPredicateOf for builders that started with event types.
func (b *FilterBuilder) AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) *FilterBuilder {
	return b.AnyPredicateOf(predicate, predicates...)
}

// AllPredicatesOf adds predicates which all have to match.
func (b *FilterBuilder) AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) *FilterBuilder {
	all := append([]FilterPredicate{predicate}, predicates...)
	b.current.predicates = sanitizePredicates(append(b.current.predicates, all...))
	b.current.allPredicatesMustMatch = len(b.current.predicates) > 1

	return b
}

// AndAllPredicatesOf is AllPredicatesOf for builders that started with event types.
func (b *FilterBuilder) AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) *FilterBuilder {
	return b.AllPredicatesOf(predicate, predicates...)
}

// OccurredFrom restricts the filter to events that occurred at or after t.
func (b *FilterBuilder) OccurredFrom(t time.Time) *FilterBuilder {
	b.filter.occurredFrom = t

	return b
}

// OccurredUntil restricts the filter to events that occurred at or before t.
func (b *FilterBuilder) OccurredUntil(t time.Time) *FilterBuilder {
	b.filter.occurredUntil = t

	return b
}

// Finalize returns the built Filter.
func (b *FilterBuilder) Finalize() Filter {
	b.closeCurrentItem()

	return Filter{
		items:         slices.Clone(b.filter.items),
		occurredFrom:  b.filter.occurredFrom,
		occurredUntil: b.filter.occurredUntil,
	}
}

func (b *FilterBuilder) closeCurrentItem() {
	if !b.current.isEmpty() {
		b.filter.items = append(b.filter.items, b.current)
	}

	b.current = FilterItem{}
}

func sanitizeEventTypes(eventTypes []FilterEventTypeString) []FilterEventTypeString {
	cleaned := slices.DeleteFunc(slices.Clone(eventTypes), func(eventType FilterEventTypeString) bool {
		return eventType == ""
	})

	slices.Sort(cleaned)

	return slices.Compact(cleaned)
}

func sanitizePredicates(predicates []FilterPredicate) []FilterPredicate {
	cleaned := slices.DeleteFunc(slices.Clone(predicates), func(p FilterPredicate) bool {
		return p.key == "" || p.val == ""
	})

	slices.SortFunc(cleaned, func(a, b FilterPredicate) int {
		if byKey := strings.Compare(a.key, b.key); byKey != 0 {
			return byKey
		}

		return strings.Compare(a.val, b.val)
	})

	return slices.Compact(cleaned)
}
