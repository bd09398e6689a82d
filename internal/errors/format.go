package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// DisableColors disables colored output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables colored output.
func EnableColors() {
	color.NoColor = false
}

var (
	red  = color.New(color.FgRed).SprintFunc()
	blue = color.New(color.FgBlue).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
	gray = color.New(color.FgHiBlack).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// Format returns the error formatted for terminal display: a header line
// followed by blank-line separated blocks for the location, the cause, the
// detail, the hint and the example.
func (e *ConsoleError) Format() string {
	header := red(bold("ERROR: ")) + e.Message
	if e.Code != "" {
		header = red(bold("ERROR ")) + bold(e.Code+": ") + e.Message
	}
	blocks := []string{header}

	if e.Location != nil {
		blocks = append(blocks, "  "+cyan(e.Location.String()))
		if len(e.Context) > 0 {
			blocks = append(blocks, e.formatContext())
		}
	}
	if e.Wrapped != nil {
		blocks = append(blocks, "  "+e.Wrapped.Error())
	}
	if e.Detail != "" {
		blocks = append(blocks, indent(wrapText(e.Detail, 70), "  ", nil))
	}
	if e.Suggestion != "" {
		blocks = append(blocks, "  "+cyan("Hint: ")+e.Suggestion)
	}
	if e.Example != "" {
		blocks = append(blocks, "  "+cyan("Example:")+"\n"+indent(strings.Split(e.Example, "\n"), "    ", blue))
	}

	return "\n" + strings.Join(blocks, "\n\n") + "\n\n"
}

// formatContext renders the source lines around the location with the
// offending line marked.
func (e *ConsoleError) formatContext() string {
	lines := make([]string, len(e.Context))
	for i, l := range e.Context {
		marker := "    "
		if l.Num == e.Location.Line {
			marker = "  " + red("→ ")
		}
		lines[i] = fmt.Sprintf("%s%4d%s%s", marker, l.Num, gray(" │ "), l.Text)
	}
	return strings.Join(lines, "\n")
}

func indent(lines []string, prefix string, paint func(a ...any) string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if paint != nil {
			l = paint(l)
		}
		out[i] = prefix + l
	}
	return strings.Join(out, "\n")
}

type jsonError struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Cause      string    `json:"cause,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// FormatJSON returns the error as a JSON object, for tools reading the
// CLI's output.
func (e *ConsoleError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText breaks text into lines of at most width characters. Words longer
// than width get a line of their own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes a formatted error to w.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ce *ConsoleError
	if As(err, &ce) {
		fmt.Fprint(w, ce.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", red(bold("ERROR:")), err.Error())
}
