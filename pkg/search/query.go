package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Operator is a filter comparison.
type Operator string

const (
	Contain      Operator = ""
	NotContain   Operator = "!"
	Equal        Operator = "="
	NotEqual     Operator = "!="
	Greater      Operator = ">"
	GreaterEqual Operator = ">="
	Less         Operator = "<"
	LessEqual    Operator = "<="
)

// operators in match order: longer prefixes first.
var operators = []Operator{GreaterEqual, LessEqual, NotEqual, Greater, Less, Equal, NotContain}

// Filter is one parsed query term. Keyword terms have an empty Key.
type Filter struct {
	Key      string   `json:"key,omitempty"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

func (f Filter) String() string {
	if f.Key == "" {
		return f.Value
	}
	return f.Key + ":" + string(f.Operator) + f.Value
}

// datetimeLayouts are the accepted forms of datetime values.
var datetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02", "2006-01"}

// ParseQuery parses a search text such as
//
//	state:ENABLED last_accessed_at:>=2024-01-01 name:"Jane Doe" admin
//
// into filters. Terms are separated by spaces; double quotes group a value.
// A term "key:value" filters on key, with an optional operator prefix on the
// value. A term without a known "key:" prefix is a keyword filter.
//
// Keys must exist in h, otherwise ErrUnknownKey is returned. Values of
// datetime and integer keys must parse, otherwise ErrInvalidValue is returned.
func ParseQuery(text string, h *Handlers) ([]Filter, error) {
	terms, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	filters := make([]Filter, 0, len(terms))
	for _, term := range terms {
		key, value, ok := strings.Cut(term, ":")
		if !ok || key == "" || strings.ContainsAny(key, `"`) {
			filters = append(filters, Filter{Operator: Contain, Value: unquote(term)})
			continue
		}

		item, known := h.Key(key)
		if !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}

		op := Contain
		for _, candidate := range operators {
			if strings.HasPrefix(value, string(candidate)) {
				op = candidate
				value = value[len(candidate):]
				break
			}
		}
		value = unquote(value)

		if err := checkValue(item, value); err != nil {
			return nil, err
		}
		filters = append(filters, Filter{Key: key, Operator: op, Value: value})
	}
	return filters, nil
}

func checkValue(item KeyItem, value string) error {
	switch item.Type() {
	case Datetime:
		for _, layout := range datetimeLayouts {
			if _, err := time.Parse(layout, value); err == nil {
				return nil
			}
		}
		return fmt.Errorf("%w: %s expects a date, got %q", ErrInvalidValue, item.Name, value)
	case Integer:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidValue, item.Name, value)
		}
	case Boolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, item.Name, value)
		}
	}
	if value == "" {
		return fmt.Errorf("%w: %s has an empty value", ErrInvalidValue, item.Name)
	}
	return nil
}

// tokenize splits on spaces outside double quotes. Quotes are kept.
func tokenize(text string) ([]string, error) {
	var (
		terms   []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range text {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case r == ' ' && !quoted:
			if current.Len() > 0 {
				terms = append(terms, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w: unterminated quote", ErrInvalidValue)
	}
	if current.Len() > 0 {
		terms = append(terms, current.String())
	}
	return terms, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
