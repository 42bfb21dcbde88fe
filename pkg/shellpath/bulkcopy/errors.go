package bulkcopy

import (
	"errors"
	"fmt"
)

// Kind separates failures found before any byte is written from failures
// during the transfer itself.
type Kind int

const (
	KindPrecondition Kind = iota + 1
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

var (
	// ErrPrecondition matches every *CopyError of KindPrecondition.
	ErrPrecondition = errors.New("bulkcopy: precondition not met")
	// ErrIO matches every *CopyError of KindIO.
	ErrIO = errors.New("bulkcopy: i/o failure")
)

type CopyError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("bulkcopy %s %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

func (e *CopyError) Is(target error) bool {
	switch target {
	case ErrPrecondition:
		return e.Kind == KindPrecondition
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

func precondition(op, path string, err error) *CopyError {
	return &CopyError{Kind: KindPrecondition, Op: op, Path: path, Err: err}
}

func ioFailure(op, path string, err error) *CopyError {
	return &CopyError{Kind: KindIO, Op: op, Path: path, Err: err}
}
