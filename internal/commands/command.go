package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeWindow Type = "window"
	TypeStats  Type = "stats"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Value string
	Time  string
}

type WindowArgs struct {
	Size int
}

type StatsArgs struct{}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Window *WindowArgs
	Stats  *StatsArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeWindow:
		return parseWindow(input, args)
	case TypeStats:
		return Command{Type: TypeStats, Raw: input, Stats: &StatsArgs{}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd only splits the arguments; value and time validation belongs to
// the measurement constructor.
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a value and a time, e.g. /add 120 08:10"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Value: args[0], Time: args[1]}}, nil
}

func parseWindow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "window requires a size"}
	}
	size, err := strconv.Atoi(args[0])
	if err != nil || size <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("window size must be a positive integer, got %q", args[0])}
	}
	return Command{Type: TypeWindow, Raw: raw, Window: &WindowArgs{Size: size}}, nil
}
