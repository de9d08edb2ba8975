// Package interpreter runs one task-tracking session: it owns the task list,
// applies parsed commands to it and reports when the session has ended.
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sandeepkv93/taskline/internal/commands"
	"github.com/sandeepkv93/taskline/internal/model"
	"github.com/sandeepkv93/taskline/internal/tasklist"
	"github.com/sandeepkv93/taskline/internal/views"
)

// Capacity is the largest number of tasks an add command will grow the list to.
const Capacity = 100

type State string

const (
	StateRunning    State = "running"
	StateTerminated State = "terminated"
)

// Response is returned with every processed line so callers can apply their own
// shutdown policy once State is StateTerminated.
type Response struct {
	Text  string
	State State
}

type Option func(*Interpreter)

func WithLogger(logger *log.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// Interpreter is safe for use by multiple goroutines; each Process call runs to
// completion before the next one starts.
type Interpreter struct {
	mu        sync.Mutex
	list      *tasklist.List
	state     State
	sessionID string
	logger    *log.Logger
}

// New starts a session over lines loaded from storage. Lines are trusted as-is.
func New(lines []string, opts ...Option) *Interpreter {
	in := &Interpreter{
		list:      tasklist.New(lines),
		state:     StateRunning,
		sessionID: uuid.NewString(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.logger = in.logger.With("session", in.sessionID)
	in.logger.Info("session started", "tasks", in.list.Count())
	return in
}

func (in *Interpreter) SessionID() string {
	return in.sessionID
}

func (in *Interpreter) Process(line string) (Response, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.state == StateTerminated {
		return Response{State: in.state}, &commands.CommandError{
			Code:    commands.ErrCodeSessionTerminated,
			Message: "This session has ended. Start a new one to keep tracking tasks.",
		}
	}

	cmd, err := commands.Parse(line)
	if err != nil {
		in.logRejected(line, err)
		return Response{State: in.state}, err
	}
	in.logger.Debug("processing command", "type", cmd.Type)

	res, err := commands.Execute(cmd, commands.Handlers{
		Done:   in.markDone,
		List:   in.listAll,
		Bye:    in.terminate,
		Delete: in.remove,
		Find:   in.find,
		Add:    in.add,
	})
	if err != nil {
		in.logRejected(line, err)
		return Response{State: in.state}, err
	}
	return Response{Text: res.Message, State: in.state}, nil
}

func (in *Interpreter) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

func (in *Interpreter) IsRunning() bool {
	return in.State() == StateRunning
}

func (in *Interpreter) Count() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.list.Count()
}

func (in *Interpreter) Snapshot() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.list.Snapshot()
}

// FinalSnapshot is the list handed to storage once the session has terminated.
func (in *Interpreter) FinalSnapshot() []string {
	return in.Snapshot()
}

func (in *Interpreter) markDone(args commands.TargetArgs) (commands.Result, error) {
	if err := in.checkNumber(args.Number); err != nil {
		return commands.Result{}, err
	}
	idx := args.Number - 1
	line, err := in.list.Get(idx)
	if err != nil {
		return commands.Result{}, err
	}
	updated, err := model.MarkDone(line)
	if err != nil {
		return commands.Result{}, &commands.CommandError{
			Code:    commands.ErrCodeMalformedTask,
			Message: fmt.Sprintf("Task %d is not a valid task line and cannot be marked done.", args.Number),
		}
	}
	if err := in.list.Replace(idx, updated); err != nil {
		return commands.Result{}, err
	}
	in.logger.Info("task completed", "number", args.Number)
	return commands.Result{Message: views.Done(updated)}, nil
}

func (in *Interpreter) listAll() (commands.Result, error) {
	return commands.Result{Message: views.TaskList(in.list.Snapshot())}, nil
}

func (in *Interpreter) terminate() (commands.Result, error) {
	in.state = StateTerminated
	in.logger.Info("session terminated", "tasks", in.list.Count())
	return commands.Result{Message: views.Farewell()}, nil
}

func (in *Interpreter) remove(args commands.TargetArgs) (commands.Result, error) {
	if err := in.checkNumber(args.Number); err != nil {
		return commands.Result{}, err
	}
	removed, err := in.list.Remove(args.Number - 1)
	if err != nil {
		return commands.Result{}, err
	}
	in.logger.Info("task deleted", "number", args.Number, "remaining", in.list.Count())
	return commands.Result{Message: views.Deleted(removed, in.list.Count())}, nil
}

func (in *Interpreter) find(args commands.FindArgs) (commands.Result, error) {
	return commands.Result{Message: views.Matches(in.list.Find(args.Keyword))}, nil
}

func (in *Interpreter) add(args commands.AddArgs) (commands.Result, error) {
	if in.list.Count() >= Capacity {
		in.logger.Warn("list full, task not added", "capacity", Capacity)
		return commands.Result{Message: views.ListFull(Capacity)}, nil
	}
	if args.Kind == model.KindDeadline {
		if err := model.ValidateDue(args.When); err != nil {
			return commands.Result{}, &commands.CommandError{
				Code:    commands.ErrCodeInvalidDate,
				Message: fmt.Sprintf("I can't read the date %q. Use d/m/yyyy, optionally followed by hhmm.", args.When),
			}
		}
	}
	task := args.Task()
	if err := task.Validate(); err != nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeEmptyArgument, Message: err.Error()}
	}
	line := task.Encode()
	in.list.Append(line)
	in.logger.Info("task added", "kind", task.Kind, "count", in.list.Count())
	return commands.Result{Message: views.Added(line, in.list.Count())}, nil
}

// checkNumber validates a 1-based task number against the current list.
func (in *Interpreter) checkNumber(n int) error {
	if n < 1 || n > in.list.Count() {
		return &commands.CommandError{
			Code:    commands.ErrCodeIndexOutOfRange,
			Message: fmt.Sprintf("Hey, no such task exists! You have %d task(s) and asked for %d.", in.list.Count(), n),
		}
	}
	return nil
}

func (in *Interpreter) logRejected(line string, err error) {
	var ce *commands.CommandError
	if errors.As(err, &ce) {
		in.logger.Info("command rejected", "code", ce.Code, "input", line)
		return
	}
	in.logger.Error("command failed", "err", err, "input", line)
}
