package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskline/internal/commands"
)

// Divider frames every reply the interpreter produces.
var Divider = strings.Repeat("*", 48)

func frame(lines ...string) string {
	var b strings.Builder
	b.WriteString(Divider + "\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString(Divider)
	return b.String()
}

func numbered(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		out = append(out, fmt.Sprintf("%d.%s", i+1, line))
	}
	return out
}

func countPhrase(n int) string {
	if n == 1 {
		return "Now you have 1 task in the list."
	}
	return fmt.Sprintf("Now you have %d tasks in the list.", n)
}

func Greeting(name string) string {
	return frame(fmt.Sprintf("Hello! I'm %s.", name), "What can I do for you?")
}

func Added(line string, count int) string {
	return frame("Got it, I've added this task:", " "+line, countPhrase(count))
}

func ListFull(capacity int) string {
	return frame(fmt.Sprintf("Sorry, the list is full! It holds at most %d tasks.", capacity))
}

func Done(line string) string {
	return frame("Nice! I have marked this task as done:", line)
}

func Deleted(line string, count int) string {
	return frame("Noted, the task has been deleted:", line, countPhrase(count))
}

func TaskList(lines []string) string {
	return frame(append([]string{"Here are the tasks in your list:"}, numbered(lines)...)...)
}

func Matches(lines []string) string {
	if len(lines) == 0 {
		return frame("No matching tasks found for that keyword.")
	}
	return frame(append([]string{"Here are the matching tasks in your list:"}, numbered(lines)...)...)
}

func Farewell() string {
	return frame("Bye! See you next time!")
}

// Failure frames an error for display. Command errors show only their message.
func Failure(err error) string {
	var ce *commands.CommandError
	if errors.As(err, &ce) {
		return frame(ce.Message)
	}
	return frame(err.Error())
}
