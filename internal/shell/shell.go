// Package shell hosts an interpreter session over a plain line-oriented stream.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/taskline/internal/interpreter"
	"github.com/sandeepkv93/taskline/internal/storage"
	"github.com/sandeepkv93/taskline/internal/views"
)

const AppName = "Taskline"

// MaxLineBytes bounds a single input line, well past bufio's 64 KiB default.
const MaxLineBytes = 1 << 20

type Shell struct {
	interp *interpreter.Interpreter
	store  storage.Store
	logger *log.Logger
}

func New(interp *interpreter.Interpreter, store storage.Store, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Shell{interp: interp, store: store, logger: logger}
}

// Run reads one command per line until the session terminates or input ends.
// The final snapshot is saved only when the session terminates; reaching EOF
// first leaves storage untouched.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if _, err := fmt.Fprintln(out, views.Greeting(AppName)); err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		res, err := s.interp.Process(line)
		reply := res.Text
		if err != nil {
			reply = views.Failure(err)
		}
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return err
		}
		if res.State == interpreter.StateTerminated {
			return s.save(ctx)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("shell: read input: %w", err)
	}
	s.logger.Warn("input closed before bye, tasks not saved")
	return nil
}

func (s *Shell) save(ctx context.Context) error {
	lines := s.interp.FinalSnapshot()
	if err := s.store.Save(ctx, lines); err != nil {
		s.logger.Error("save failed", "err", err)
		return err
	}
	s.logger.Info("tasks saved", "count", len(lines))
	return nil
}
