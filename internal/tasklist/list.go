// Package tasklist holds the ordered, mutable sequence of encoded task lines
// owned by an interpreter session.
package tasklist

import (
	"errors"
	"fmt"
	"strings"
)

var ErrOutOfRange = errors.New("tasklist: index out of range")

// List is not safe for concurrent use; the interpreter serializes access.
type List struct {
	lines []string
}

// New copies lines so the caller keeps ownership of its slice.
func New(lines []string) *List {
	out := make([]string, len(lines))
	copy(out, lines)
	return &List{lines: out}
}

func (l *List) Count() int {
	return len(l.lines)
}

func (l *List) Get(index int) (string, error) {
	if err := l.check(index); err != nil {
		return "", err
	}
	return l.lines[index], nil
}

func (l *List) Replace(index int, line string) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.lines[index] = line
	return nil
}

func (l *List) Append(line string) {
	l.lines = append(l.lines, line)
}

// Remove deletes the line at index and shifts later lines down by one.
func (l *List) Remove(index int) (string, error) {
	if err := l.check(index); err != nil {
		return "", err
	}
	removed := l.lines[index]
	l.lines = append(l.lines[:index], l.lines[index+1:]...)
	return removed, nil
}

// Find returns matching lines in list order. The match is a case-sensitive substring test.
func (l *List) Find(substr string) []string {
	out := make([]string, 0)
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			out = append(out, line)
		}
	}
	return out
}

func (l *List) Snapshot() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *List) check(index int) error {
	if index < 0 || index >= len(l.lines) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(l.lines))
	}
	return nil
}
