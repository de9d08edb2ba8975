package model

import (
	"errors"
	"testing"
)

func TestTaskEncode(t *testing.T) {
	cases := []struct {
		task Task
		want string
	}{
		{NewTodo("read book"), "[T][ ] read book"},
		{NewDeadline("submit report", "2/12/2019 1800"), "[D][ ] submit report (by: 2/12/2019 1800)"},
		{NewEvent("project meeting", "Mon 2-4pm"), "[E][ ] project meeting (at: Mon 2-4pm)"},
		{Task{Kind: KindTodo, Description: "done already", Done: true}, "[T][✓] done already"},
	}
	for _, tc := range cases {
		if got := tc.task.Encode(); got != tc.want {
			t.Fatalf("encode %+v = %q, want %q", tc.task, got, tc.want)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	tasks := []Task{
		NewTodo("read book"),
		NewDeadline("return book (library)", "2024-01-01"),
		NewEvent("lunch", "cafe (level 2)"),
		{Kind: KindEvent, Description: "standup", When: "room 3", Done: true},
	}
	for _, task := range tasks {
		line := task.Encode()
		got, err := Decode(line)
		if err != nil {
			t.Fatalf("decode %q failed: %v", line, err)
		}
		if got != task {
			t.Fatalf("decode %q = %+v, want %+v", line, got, task)
		}
		if got.Encode() != line {
			t.Fatalf("re-encode mismatch: %q vs %q", got.Encode(), line)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, line := range []string{"", "hello", "[X][ ] what", "[T][?] bad marker", "[D][ ] no clause", "[T][ ]missing space"} {
		if _, err := Decode(line); !errors.Is(err, ErrMalformedLine) {
			t.Fatalf("decode %q: expected ErrMalformedLine, got %v", line, err)
		}
	}
}

func TestMarkDoneRewritesOnlyMarker(t *testing.T) {
	line := NewDeadline("pay rent", "1/2/2026").Encode()
	done, err := MarkDone(line)
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if done != "[D][✓] pay rent (by: 1/2/2026)" {
		t.Fatalf("unexpected done line: %q", done)
	}
	if !IsDone(done) || IsDone(line) {
		t.Fatalf("IsDone mismatch: pending=%v done=%v", IsDone(line), IsDone(done))
	}

	again, err := MarkDone(done)
	if err != nil {
		t.Fatalf("mark done twice: %v", err)
	}
	if again != done {
		t.Fatalf("second mark changed line: %q -> %q", done, again)
	}
}

func TestMarkDoneRejectsUndecodableLines(t *testing.T) {
	cases := []string{
		"[T]",
		"hello world",
		"[X][ ] unknown tag",
		"[T][?] bad marker",
		"[D][ ] no clause",
		"[E][ ] party (by: home)",
	}
	for _, line := range cases {
		if _, err := MarkDone(line); !errors.Is(err, ErrMalformedLine) {
			t.Fatalf("MarkDone(%q): expected ErrMalformedLine, got %v", line, err)
		}
	}
}

func TestTaskValidate(t *testing.T) {
	if err := NewTodo("x").Validate(); err != nil {
		t.Fatalf("expected valid todo, got %v", err)
	}
	if err := (Task{Kind: Kind("chore"), Description: "x"}).Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if err := NewTodo("  ").Validate(); err == nil {
		t.Fatal("expected error for blank description")
	}
	if err := NewEvent("party", "").Validate(); err == nil {
		t.Fatal("expected error for event without window")
	}
}

func TestValidateDue(t *testing.T) {
	valid := []string{"2/12/2019", "2/12/2019 1800", "02/12/2019 18:00", "2024-01-01", "2024-01-01 09:30"}
	for _, v := range valid {
		if err := ValidateDue(v); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", v, err)
		}
	}
	invalid := []string{"tomorrow", "12/31/2019", "2019/12/2", "2/12/2019 25:00", ""}
	for _, v := range invalid {
		if err := ValidateDue(v); !errors.Is(err, ErrInvalidDue) {
			t.Fatalf("expected %q to be rejected, got %v", v, err)
		}
	}
}
