package harness

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// FatalError describes a harness failure that ends the process: an arena
// allocation that could not be satisfied, or misuse of the declaration API.
type FatalError struct {
	Op     string // operation being performed, e.g. "test case registry"
	Bytes  uint64 // requested allocation size, zero for misuse
	Reason string
}

func (e *FatalError) Error() string {
	if e.Bytes > 0 {
		return fmt.Sprintf("reallocation of %d bytes for %s failed", e.Bytes, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

type fatalHandler struct {
	logger *zap.Logger
	exit   func(code int)
}

func newFatalHandler(logger *zap.Logger, exit func(int)) *fatalHandler {
	if exit == nil {
		exit = os.Exit
	}
	return &fatalHandler{logger: logger, exit: exit}
}

// fail logs err and terminates. When the exit hook returns, err is raised as
// a panic so that nothing after a fatal error keeps running.
func (h *fatalHandler) fail(err *FatalError) {
	h.logger.Error(err.Error()+". Killing self...",
		zap.String("op", err.Op),
		zap.Uint64("bytes", err.Bytes),
		zap.String("reason", err.Reason),
	)
	_ = h.logger.Sync()
	h.exit(1)
	panic(err)
}

func (h *fatalHandler) misuse(op, format string, args ...any) {
	h.fail(&FatalError{Op: op, Reason: fmt.Sprintf(format, args...)})
}
