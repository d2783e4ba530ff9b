// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// ConfigurationError reports a pixel format, vertex layout or shader
// type outside the supported set.
type ConfigurationError struct {
	Op    string
	What  string
	Value int
}

// BackendResourceError reports a failure of the graphics API, such as
// an incomplete framebuffer or a shader that fails to link.
type BackendResourceError struct {
	Op         string
	Diagnostic string
	Err        error
}

// UsageError reports an operation on an id that was never created or
// already destroyed, or the creation of an id that is still live.
type UsageError struct {
	Op        string
	Kind      string
	ID        uint32
	Duplicate bool
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("driver: %s: unsupported %s %d", e.Op, e.What, e.Value)
}

func (e *BackendResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("driver: %s: %s: %v", e.Op, e.Diagnostic, e.Err)
	}
	return fmt.Sprintf("driver: %s: %s", e.Op, e.Diagnostic)
}

func (e *BackendResourceError) Unwrap() error {
	return e.Err
}

func (e *UsageError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("driver: %s: %s id %d already in use", e.Op, e.Kind, e.ID)
	}
	return fmt.Sprintf("driver: %s: unknown %s id %d", e.Op, e.Kind, e.ID)
}

// Fatal logs err together with the location of the caller and panics
// with err. Errors reaching Fatal are not recoverable; the collaborator
// must only present resources created through the driver.
func Fatal(err error) {
	caller := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	Logger().Error("fatal driver error", "caller", caller, "err", err)
	panic(err)
}
