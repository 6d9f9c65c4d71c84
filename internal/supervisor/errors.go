package supervisor

import (
	"errors"
	"fmt"

	"github.com/loykin/toolhub/internal/catalog"
)

// ErrBinaryNotFound is returned by Start when the locator cannot resolve the
// tool's executable. Recoverable; never retried internally.
var ErrBinaryNotFound = errors.New("tool binary not found")

// SpawnError reports a tool that exited within the start grace window. The
// diagnostic carries the first lines of captured stderr, or the exit code
// when the tool wrote nothing. Recoverable; the caller decides on retry.
type SpawnError struct {
	Tool       catalog.ID
	Diagnostic string
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s failed to start: %s", e.Tool.DisplayName(), e.Diagnostic)
}
