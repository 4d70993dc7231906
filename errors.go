package sprig

import (
	"fmt"

	"github.com/pkg/errors"
)

// ShaderErrorKind distinguishes shader compilation from program linking
// failures.
//
type ShaderErrorKind int

// Shader error kinds.
//
const (
	ShaderCompilationFailed ShaderErrorKind = iota
	ProgramLinkingFailed
)

func (k ShaderErrorKind) String() string {
	switch k {
	case ShaderCompilationFailed:
		return "shader compilation failed"
	case ProgramLinkingFailed:
		return "program linking failed"
	}
	return fmt.Sprintf("ShaderErrorKind(%d)", int(k))
}

// ShaderError is returned when a shader program cannot be built. Log holds the
// raw diagnostic output from the GPU driver.
//
type ShaderError struct {
	Kind  ShaderErrorKind
	Stage string // "vertex", "fragment" or empty for link errors
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s shader: %v: %s", e.Stage, e.Kind, e.Log)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Log)
}

// ErrMeshNotInitialized matches both ErrMeshVAONotInitialized and
// ErrMeshEBONotInitialized with errors.Is.
//
var ErrMeshNotInitialized = errors.New("mesh not initialized")

// Errors returned by Manager.Render when a batch references an unusable mesh.
//
var (
	ErrMeshVAONotInitialized error = &meshError{"mesh VAO not initialized"}
	ErrMeshEBONotInitialized error = &meshError{"mesh EBO not initialized"}
)

type meshError struct {
	msg string
}

func (e *meshError) Error() string { return e.msg }

func (e *meshError) Is(target error) bool {
	return target == ErrMeshNotInitialized
}
