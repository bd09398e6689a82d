// Package search describes the searchable keys of a console table and how
// candidate values for each key are produced.
//
// A Handlers value pairs the key catalogue shown to the user (KeyItemSets)
// with a ValueHandler per key. Value handlers either enumerate a fixed set
// (EnumValueHandler) or ask a backing directory for distinct column values
// and resource references (DistinctValueHandler, ReferenceValueHandler).
package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultLimit bounds the number of values a handler returns when the query
// does not set one.
const DefaultLimit = 10

// Errors returned by handlers and the query parser.
var (
	ErrUnknownKey   = errors.New("unknown search key")
	ErrInvalidValue = errors.New("invalid search value")
)

// DataType is the value type of a search key.
type DataType string

const (
	String   DataType = "string"
	Integer  DataType = "integer"
	Datetime DataType = "datetime"
	Boolean  DataType = "boolean"
)

// KeyItem is one searchable key.
type KeyItem struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	DataType DataType `json:"dataType,omitempty"`
}

// Type returns the key's data type, String when unset.
func (k KeyItem) Type() DataType {
	if k.DataType == "" {
		return String
	}
	return k.DataType
}

// KeyItemSet groups keys under a title.
type KeyItemSet struct {
	Title string    `json:"title"`
	Items []KeyItem `json:"items"`
}

// ValueItem is one candidate value. Name is the value sent in queries,
// Label is what the user sees.
type ValueItem struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// ValueQuery asks a handler for candidate values.
type ValueQuery struct {
	// Key is the key whose values are wanted.
	Key KeyItem
	// Text filters candidates; empty returns the first Limit values.
	Text string
	// Limit bounds the result size; zero means DefaultLimit.
	Limit int
}

func (q ValueQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// ValueResult is a handler response.
type ValueResult struct {
	Results    []ValueItem `json:"results"`
	TotalCount int         `json:"totalCount"`
}

// ValueHandler produces candidate values for a key.
type ValueHandler interface {
	Values(ctx context.Context, q ValueQuery) (ValueResult, error)
}

// ValueHandlerFunc is a function adapter for ValueHandler.
type ValueHandlerFunc func(ctx context.Context, q ValueQuery) (ValueResult, error)

// Values implements ValueHandler.
func (f ValueHandlerFunc) Values(ctx context.Context, q ValueQuery) (ValueResult, error) {
	return f(ctx, q)
}

// EnumMap maps enum values to display labels.
type EnumMap map[string]string

// EnumValueHandler returns a handler over a fixed set of values. Candidates
// are sorted by value and filtered case-insensitively on value and label.
func EnumValueHandler(m EnumMap) ValueHandler {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	return ValueHandlerFunc(func(ctx context.Context, q ValueQuery) (ValueResult, error) {
		text := strings.ToLower(q.Text)
		var matched []ValueItem
		for _, name := range names {
			label := m[name]
			if text != "" && !strings.Contains(strings.ToLower(name), text) && !strings.Contains(strings.ToLower(label), text) {
				continue
			}
			matched = append(matched, ValueItem{Name: name, Label: label})
		}
		return truncate(matched, q.limit()), nil
	})
}

// DistinctSource lists distinct values of a resource field.
type DistinctSource interface {
	Distinct(ctx context.Context, resource, key, text string, limit int) ([]string, error)
}

// DistinctValueHandler returns a handler that asks src for the distinct
// values of resource.key. Datetime keys are offered without free-text
// filtering since their stored form rarely matches what users type.
func DistinctValueHandler(resource, key string, dataType DataType, src DistinctSource) ValueHandler {
	return ValueHandlerFunc(func(ctx context.Context, q ValueQuery) (ValueResult, error) {
		text := q.Text
		if dataType == Datetime {
			text = ""
		}
		values, err := src.Distinct(ctx, resource, key, text, q.limit())
		if err != nil {
			return ValueResult{}, fmt.Errorf("distinct %s.%s: %w", resource, key, err)
		}
		items := make([]ValueItem, len(values))
		for i, v := range values {
			items[i] = ValueItem{Name: v, Label: v}
		}
		return ValueResult{Results: items, TotalCount: len(items)}, nil
	})
}

// ReferenceSource lists references (id and display name) to resources.
type ReferenceSource interface {
	References(ctx context.Context, resource, text string, limit int) ([]ValueItem, error)
}

// ReferenceValueHandler returns a handler that lists references to resource.
func ReferenceValueHandler(resource string, src ReferenceSource) ValueHandler {
	return ValueHandlerFunc(func(ctx context.Context, q ValueQuery) (ValueResult, error) {
		items, err := src.References(ctx, resource, q.Text, q.limit())
		if err != nil {
			return ValueResult{}, fmt.Errorf("references %s: %w", resource, err)
		}
		return ValueResult{Results: items, TotalCount: len(items)}, nil
	})
}

func truncate(items []ValueItem, limit int) ValueResult {
	total := len(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return ValueResult{Results: items, TotalCount: total}
}

// Handlers is the search configuration of one table.
type Handlers struct {
	KeyItemSets   []KeyItemSet
	ValueHandlers map[string]ValueHandler
}

// Key returns the key item named name.
func (h *Handlers) Key(name string) (KeyItem, bool) {
	for _, set := range h.KeyItemSets {
		for _, item := range set.Items {
			if item.Name == name {
				return item, true
			}
		}
	}
	return KeyItem{}, false
}

// Keys returns every key in catalogue order.
func (h *Handlers) Keys() []KeyItem {
	var keys []KeyItem
	for _, set := range h.KeyItemSets {
		keys = append(keys, set.Items...)
	}
	return keys
}

// Values returns candidate values for a key.
func (h *Handlers) Values(ctx context.Context, key, text string, limit int) (ValueResult, error) {
	item, ok := h.Key(key)
	if !ok {
		return ValueResult{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	handler, ok := h.ValueHandlers[key]
	if !ok {
		return ValueResult{}, nil
	}
	return handler.Values(ctx, ValueQuery{Key: item, Text: text, Limit: limit})
}
