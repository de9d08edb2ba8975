package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Done   func(TargetArgs) (Result, error)
	List   func() (Result, error)
	Bye    func() (Result, error)
	Delete func(TargetArgs) (Result, error)
	Find   func(FindArgs) (Result, error)
	Add    func(AddArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Target)
	case TypeList:
		if handlers.List == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "list handler not configured"}
		}
		return handlers.List()
	case TypeBye:
		if handlers.Bye == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "bye handler not configured"}
		}
		return handlers.Bye()
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "delete handler not configured"}
		}
		return handlers.Delete(*cmd.Target)
	case TypeFind:
		if handlers.Find == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "find handler not configured"}
		}
		return handlers.Find(*cmd.Find)
	case TypeTodo, TypeDeadline, TypeEvent:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", cmd.Type)}
		}
		return handlers.Add(*cmd.Add)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
