package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRouting Category = "routing"
	CategorySearch  Category = "search"
	CategoryCLI     Category = "cli"
)

// Location represents a position in a configuration or route file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String formats the location as file[:line[:column]].
func (l *Location) String() string {
	switch {
	case l == nil:
		return ""
	case l.Line <= 0:
		return l.File
	case l.Column <= 0:
		return l.File + ":" + strconv.Itoa(l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// SourceLine is one numbered line of a file.
type SourceLine struct {
	Num  int
	Text string
}

// ConsoleError is a coded error with an explanation and a fix suggestion.
type ConsoleError struct {
	// Code is a unique error identifier (e.g., "E200").
	Code string

	// Category is the error type (config, routing, search, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position the error refers to.
	Location *Location

	// Context holds the file lines around Location.
	Context []SourceLine

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct form.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ConsoleError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code + ": ")
	}
	b.WriteString(e.Message)
	if e.Wrapped != nil {
		b.WriteString(": " + e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ConsoleError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file position to the error.
func (e *ConsoleError) WithLocation(file string, line, column int) *ConsoleError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if line > 0 {
		e.Context = sourceLines(file, line, 2)
	}
	return e
}

// yamlLine matches the position yaml.v3 puts in its error messages.
var yamlLine = regexp.MustCompile(`line (\d+)`)

// WithLocationFromError extracts a line number from a decoder error such as
// "yaml: line 4: mapping values are not allowed in this context".
func (e *ConsoleError) WithLocationFromError(file string, err error) *ConsoleError {
	if err == nil {
		return e
	}
	line := 0
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	return e.WithLocation(file, line, 0)
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ConsoleError) WithSuggestion(s string) *ConsoleError {
	e.Suggestion = s
	return e
}

// WithExample adds an example of the correct form.
func (e *ConsoleError) WithExample(ex string) *ConsoleError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ConsoleError) WithDetail(d string) *ConsoleError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ConsoleError) Wrap(err error) *ConsoleError {
	e.Wrapped = err
	return e
}

// sourceLines returns the lines of filename within radius of line.
func sourceLines(filename string, line, radius int) []SourceLine {
	f, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []SourceLine
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan() && n <= line+radius; n++ {
		if n >= line-radius {
			out = append(out, SourceLine{Num: n, Text: sc.Text()})
		}
	}
	return out
}

// New creates a ConsoleError from a registered error code.
func New(code string) *ConsoleError {
	t, ok := registry[code]
	if !ok {
		t = ErrorTemplate{Category: CategoryCLI, Message: "Unknown error"}
	}
	return &ConsoleError{
		Code:       code,
		Category:   t.Category,
		Message:    t.Message,
		Detail:     t.Detail,
		Suggestion: t.Suggestion,
	}
}

// Newf creates a new ConsoleError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ConsoleError {
	return &ConsoleError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ConsoleError. Errors that already
// carry a ConsoleError are returned as is.
func FromError(err error, code string) *ConsoleError {
	if err == nil {
		return nil
	}
	var ce *ConsoleError
	if stderrors.As(err, &ce) {
		return ce
	}
	return New(code).Wrap(err)
}
