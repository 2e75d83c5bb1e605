// ABOUTME: Error taxonomy for the installation engine
// ABOUTME: Separates input rejections from generation defects
package core

import (
	"errors"
	"fmt"

	"github.com/harper/plugstore/internal/models"
)

// Input rejections. A rejected chunk is dropped for that manager and the pipeline continues.
var (
	ErrRejected          = errors.New("chunk rejected")
	ErrNoMatch           = fmt.Errorf("%w: no declaration for repository", ErrRejected)
	ErrUnparseable       = fmt.Errorf("%w: source does not parse", ErrRejected)
	ErrIncompatibleField = fmt.Errorf("%w: incompatible field", ErrRejected)
	ErrUnsupportedValue  = fmt.Errorf("%w: unsupported value", ErrRejected)
)

// GenerationError reports generated code that failed its own parse check.
// It signals a defect in the migrator rather than bad README input.
type GenerationError struct {
	Manager models.PluginManager
	Target  models.PluginManager
	Source  string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generated %s code from %s declaration is invalid: %v", e.Target, e.Manager, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsRejection reports whether err is an input rejection
func IsRejection(err error) bool {
	return errors.Is(err, ErrRejected)
}

func reject(base error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}
