package asset

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrNameNotFound is returned when looking up a name that is not in a Database.
//
var ErrNameNotFound = errors.New("asset name not found")

// Kind classifies asset errors.
//
type Kind int

// Error kinds.
//
const (
	KindIO       Kind = iota // reading the file failed
	KindImage                // decoding an image failed
	KindObject               // decoding a YAML object failed
	KindFont                 // parsing a font failed
	KindNotFound             // unknown asset name
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "i/o"
	case KindImage:
		return "image"
	case KindObject:
		return "object"
	case KindFont:
		return "font"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

// Error describes a failure to load an asset.
//
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
//
func (e *Error) Unwrap() error { return e.Err }

// Cause returns the underlying error.
//
func (e *Error) Cause() error { return e.Err }

// errorList is returned by operations on multiple assets.
//
type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap returns the individual errors.
//
func (e errorList) Unwrap() []error { return e }

func (e errorList) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
