package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidKind   = errors.New("model: invalid task kind")
	ErrInvalidDue    = errors.New("model: invalid due date")
	ErrMalformedLine = errors.New("model: malformed task line")
)

const (
	// DoneMark and PendingMark occupy the character at MarkerIndex of every encoded line.
	DoneMark    = '✓'
	PendingMark = ' '
	MarkerIndex = 4
)

type Kind string

const (
	KindTodo     Kind = "todo"
	KindDeadline Kind = "deadline"
	KindEvent    Kind = "event"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindTodo, KindDeadline, KindEvent:
		return true
	default:
		return false
	}
}

// Tag is the single-letter type marker written in the first bracket pair.
func (k Kind) Tag() string {
	switch k {
	case KindTodo:
		return "T"
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "?"
	}
}

// Bound reports whether the kind carries a date or window clause.
func (k Kind) Bound() bool {
	return k == KindDeadline || k == KindEvent
}

func (k Kind) clauseLabel() string {
	switch k {
	case KindDeadline:
		return "by"
	case KindEvent:
		return "at"
	default:
		return ""
	}
}

func kindFromTag(tag byte) (Kind, bool) {
	switch tag {
	case 'T':
		return KindTodo, true
	case 'D':
		return KindDeadline, true
	case 'E':
		return KindEvent, true
	default:
		return "", false
	}
}

type Task struct {
	Kind        Kind
	Description string
	// When holds the due date for deadlines and the location or window for events.
	When string
	Done bool
}

func NewTodo(description string) Task {
	return Task{Kind: KindTodo, Description: description}
}

func NewDeadline(description, due string) Task {
	return Task{Kind: KindDeadline, Description: description, When: due}
}

func NewEvent(description, window string) Task {
	return Task{Kind: KindEvent, Description: description, When: window}
}

func (t Task) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("model: task description is required")
	}
	if t.Kind.Bound() && strings.TrimSpace(t.When) == "" {
		return fmt.Errorf("model: %s task requires a %q clause", t.Kind, t.Kind.clauseLabel())
	}
	if !t.Kind.Bound() && t.When != "" {
		return errors.New("model: todo task cannot carry a date clause")
	}
	return nil
}

// Encode renders the canonical single-line form used for display and storage.
func (t Task) Encode() string {
	mark := PendingMark
	if t.Done {
		mark = DoneMark
	}
	line := fmt.Sprintf("[%s][%c] %s", t.Kind.Tag(), mark, t.Description)
	if t.Kind.Bound() {
		line += fmt.Sprintf(" (%s: %s)", t.Kind.clauseLabel(), t.When)
	}
	return line
}

func (t Task) String() string {
	return t.Encode()
}

// Decode parses a canonical line back into a Task.
func Decode(line string) (Task, error) {
	if len(line) < 4 || line[0] != '[' || line[2] != ']' || line[3] != '[' {
		return Task{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	kind, ok := kindFromTag(line[1])
	if !ok {
		return Task{}, fmt.Errorf("%w: unknown tag in %q", ErrMalformedLine, line)
	}
	mark, size := utf8.DecodeRuneInString(line[MarkerIndex:])
	if mark != DoneMark && mark != PendingMark {
		return Task{}, fmt.Errorf("%w: unknown done marker in %q", ErrMalformedLine, line)
	}
	body, ok := strings.CutPrefix(line[MarkerIndex+size:], "] ")
	if !ok {
		return Task{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	out := Task{Kind: kind, Description: body, Done: mark == DoneMark}
	if kind.Bound() {
		open := " (" + kind.clauseLabel() + ": "
		idx := strings.LastIndex(body, open)
		if idx < 0 || !strings.HasSuffix(body, ")") {
			return Task{}, fmt.Errorf("%w: missing %q clause in %q", ErrMalformedLine, kind.clauseLabel(), line)
		}
		out.Description = body[:idx]
		out.When = body[idx+len(open) : len(body)-1]
	}
	return out, nil
}

// MarkDone rewrites the done marker of an encoded line and leaves every other
// character in place. Marking a completed line again returns it unchanged.
// Lines that do not decode are rejected untouched.
func MarkDone(line string) (string, error) {
	if _, err := Decode(line); err != nil {
		return "", err
	}
	i := 0
	for pos := range line {
		if i == MarkerIndex {
			_, size := utf8.DecodeRuneInString(line[pos:])
			return line[:pos] + string(DoneMark) + line[pos+size:], nil
		}
		i++
	}
	return "", fmt.Errorf("%w: %q is too short to carry a done marker", ErrMalformedLine, line)
}

func IsDone(line string) bool {
	i := 0
	for _, r := range line {
		if i == MarkerIndex {
			return r == DoneMark
		}
		i++
	}
	return false
}

var dueLayouts = []string{
	"2/1/2006",
	"2/1/2006 1504",
	"2/1/2006 15:04",
	"2006-01-02",
	"2006-01-02 15:04",
}

// ValidateDue accepts day/month/year dates with an optional 24h time, or ISO dates.
func ValidateDue(when string) error {
	trimmed := strings.TrimSpace(when)
	for _, layout := range dueLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (expected d/m/yyyy [hhmm])", ErrInvalidDue, when)
}
