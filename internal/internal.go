// Package internal provides functionality that is shared by the parfold
// executor packages, but is not part of the public interface of the library.
package internal

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a panic recovered in a spawned
// goroutine, so that the panic can be raised again at the join point of a
// fork-join pair without losing where it came from. The wrapped value keeps
// the error and runtime.Error natures of the original.
func WrapPanic(p any) any {
	if p != nil {
		s := fmt.Sprintf("%v\n%s\nrethrown at", p, debug.Stack())
		if _, isError := p.(error); isError {
			r := errors.New(s)
			if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
				return runtimeError{r}
			}
			return r
		}
		return s
	}
	return nil
}
