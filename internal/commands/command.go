package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/taskline/internal/model"
)

type Type string

const (
	TypeDone     Type = "done"
	TypeList     Type = "list"
	TypeBye      Type = "bye"
	TypeDelete   Type = "delete"
	TypeFind     Type = "find"
	TypeTodo     Type = "todo"
	TypeDeadline Type = "deadline"
	TypeEvent    Type = "event"
)

type ErrorCode string

const (
	ErrCodeEmptyArgument     ErrorCode = "empty_argument"
	ErrCodeNotAnInteger      ErrorCode = "not_an_integer"
	ErrCodeIndexOutOfRange   ErrorCode = "index_out_of_range"
	ErrCodeMissingClause     ErrorCode = "missing_required_clause"
	ErrCodeUnknownCommand    ErrorCode = "unknown_command"
	ErrCodeInvalidDate       ErrorCode = "invalid_date"
	ErrCodeMalformedTask     ErrorCode = "malformed_task"
	ErrCodeSessionTerminated ErrorCode = "session_terminated"
	ErrCodeHandlerMissing    ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *CommandError {
	return &CommandError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// TargetArgs carries the 1-based task number given to done and delete.
type TargetArgs struct {
	Number int
}

type FindArgs struct {
	Keyword string
}

type AddArgs struct {
	Kind        model.Kind
	Description string
	When        string
}

type Command struct {
	Type   Type
	Raw    string
	Target *TargetArgs
	Find   *FindArgs
	Add    *AddArgs
}

// Task builds the model value for an add command.
func (a AddArgs) Task() model.Task {
	return model.Task{Kind: a.Kind, Description: a.Description, When: a.When}
}

type matcher struct {
	prefix string
	exact  bool
	parse  func(raw, arg string) (Command, error)
}

// Order is precedence. Every prefix ends with its separator so no two matchers
// can claim the same line.
var matchers = []matcher{
	{prefix: "done ", parse: parseTarget(TypeDone)},
	{prefix: "list", exact: true, parse: parseBare(TypeList)},
	{prefix: "bye", exact: true, parse: parseBare(TypeBye)},
	{prefix: "delete ", parse: parseTarget(TypeDelete)},
	{prefix: "find ", parse: parseFind},
	{prefix: "todo ", parse: parseTodo},
	{prefix: "deadline ", parse: parseBound(TypeDeadline, model.KindDeadline, " /by ")},
	{prefix: "event ", parse: parseBound(TypeEvent, model.KindEvent, " /at ")},
}

func Parse(input string) (Command, error) {
	for _, m := range matchers {
		if m.exact {
			if input == m.prefix {
				return m.parse(input, "")
			}
			continue
		}
		if arg, ok := strings.CutPrefix(input, m.prefix); ok {
			return m.parse(input, arg)
		}
	}
	if strings.TrimSpace(input) == "" {
		return Command{}, newError(ErrCodeUnknownCommand, "Say something! Try todo, deadline, event, list, done, delete, find or bye.")
	}
	return Command{}, newError(ErrCodeUnknownCommand, "I don't know what %q means.", input)
}

func parseBare(typ Type) func(string, string) (Command, error) {
	return func(raw, _ string) (Command, error) {
		return Command{Type: typ, Raw: raw}, nil
	}
}

func parseTarget(typ Type) func(string, string) (Command, error) {
	return func(raw, arg string) (Command, error) {
		if strings.TrimSpace(arg) == "" {
			return Command{}, newError(ErrCodeEmptyArgument, "Which task? Try: %s <task number>", typ)
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Command{}, newError(ErrCodeNotAnInteger, "%s needs a task number, got %q", typ, arg)
		}
		return Command{Type: typ, Raw: raw, Target: &TargetArgs{Number: n}}, nil
	}
}

func parseFind(raw, arg string) (Command, error) {
	if strings.TrimSpace(arg) == "" {
		return Command{}, newError(ErrCodeEmptyArgument, "What are you trying to find? Try: find <keyword>")
	}
	return Command{Type: TypeFind, Raw: raw, Find: &FindArgs{Keyword: arg}}, nil
}

func parseTodo(raw, arg string) (Command, error) {
	if strings.TrimSpace(arg) == "" {
		return Command{}, newError(ErrCodeEmptyArgument, "Your todo is empty. Try: todo <description>")
	}
	return Command{Type: TypeTodo, Raw: raw, Add: &AddArgs{Kind: model.KindTodo, Description: arg}}, nil
}

func parseBound(typ Type, kind model.Kind, sep string) func(string, string) (Command, error) {
	return func(raw, arg string) (Command, error) {
		// Search from the keyword's own trailing space so "deadline /by x"
		// reads as an empty description rather than a missing clause.
		body := " " + arg
		idx := strings.Index(body, sep)

		desc := strings.TrimPrefix(body, " ")
		when := ""
		if idx >= 0 {
			desc = ""
			if idx > 0 {
				desc = body[1:idx]
			}
			when = body[idx+len(sep):]
		}

		// Description is checked before the clause for both kinds, so a line
		// missing both reports the empty description.
		if strings.TrimSpace(desc) == "" {
			return Command{}, newError(ErrCodeEmptyArgument, "Your %s has no description. Try: %s <description>%s<when>", typ, typ, sep)
		}
		if idx < 0 || strings.TrimSpace(when) == "" {
			return Command{}, newError(ErrCodeMissingClause, "When is this %s? Add%s<when> after the description.", typ, sep)
		}
		return Command{Type: typ, Raw: raw, Add: &AddArgs{Kind: kind, Description: desc, When: when}}, nil
	}
}
