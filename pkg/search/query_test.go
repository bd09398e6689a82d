package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	h := UserSearchHandlers(newFakeSource())

	tests := []struct {
		name string
		text string
		want []Filter
	}{
		{"empty", "   ", []Filter{}},
		{"keyword", "admin", []Filter{{Operator: Contain, Value: "admin"}}},
		{"contain", "name:jane", []Filter{{Key: "name", Operator: Contain, Value: "jane"}}},
		{"equal", "state:=ENABLED", []Filter{{Key: "state", Operator: Equal, Value: "ENABLED"}}},
		{"not equal", "state:!=DISABLED", []Filter{{Key: "state", Operator: NotEqual, Value: "DISABLED"}}},
		{"not contain", "email:!example.com", []Filter{{Key: "email", Operator: NotContain, Value: "example.com"}}},
		{"greater equal", "last_accessed_at:>=2024-01-01", []Filter{{Key: "last_accessed_at", Operator: GreaterEqual, Value: "2024-01-01"}}},
		{"less", "last_accessed_at:<2024-02", []Filter{{Key: "last_accessed_at", Operator: Less, Value: "2024-02"}}},
		{"quoted", `name:"Jane Doe" admin`, []Filter{
			{Key: "name", Operator: Contain, Value: "Jane Doe"},
			{Operator: Contain, Value: "admin"},
		}},
		{"quoted keyword", `"a:b c"`, []Filter{{Operator: Contain, Value: "a:b c"}}},
		{"multiple", "state:ENABLED  backend:LOCAL", []Filter{
			{Key: "state", Operator: Contain, Value: "ENABLED"},
			{Key: "backend", Operator: Contain, Value: "LOCAL"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(tt.text, h)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	h := UserSearchHandlers(newFakeSource())

	tests := []struct {
		text string
		want error
	}{
		{"colour:red", ErrUnknownKey},
		{"last_accessed_at:>yesterday", ErrInvalidValue},
		{"name:", ErrInvalidValue},
		{`name:"unterminated`, ErrInvalidValue},
	}
	for _, tt := range tests {
		_, err := ParseQuery(tt.text, h)
		assert.ErrorIs(t, err, tt.want, tt.text)
	}
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "state:=ENABLED", Filter{Key: "state", Operator: Equal, Value: "ENABLED"}.String())
	assert.Equal(t, "admin", Filter{Value: "admin"}.String())
}
