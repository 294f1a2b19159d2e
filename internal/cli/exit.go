package cli

import (
	"fmt"
	"os"
)

// Gate exit codes. Generic errors exit 1 via the normal error path.
const (
	ExitGateFailed = 2
	ExitLowRecall  = 3
)

// ExitError carries a specific process exit code through cobra's error
// return. Quality gates use it to distinguish "gate tripped" from "broke".
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }

func gateFailed(code int, format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	logError("%s", msg)
	return &ExitError{Code: code, Msg: msg}
}

// Stage progress goes to stderr so stdout stays reserved for artifacts.

func logOK(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "[ok] "+format+"\n", a...)
}

func logWarn(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "[warn] "+format+"\n", a...)
}

func logError(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "[error] "+format+"\n", a...)
}
