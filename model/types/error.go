package types

import (
	"errors"
	"fmt"
	"strings"
)

// Model error codes.
const (
	UndefinedModelVersion = "UNDEFINED_MODEL_VERSION"
	UndefinedModelEntry   = "UNDEFINED_MODEL_ENTRY"
	InvalidModel          = "INVALID_MODEL"
	InvalidWorkItem       = "INVALID_WORKITEM"
	LoopDetected          = "LOOP_DETECTED"
)

// Plugin and adapter error codes raised by the engine itself.
const (
	PluginNotRegistered  = "PLUGIN_NOT_REGISTERED"
	AdapterNotRegistered = "ADAPTER_NOT_REGISTERED"
	AdapterFailed        = "ADAPTER_ERROR"
	PluginFailed         = "PLUGIN_ERROR"
	InvalidFormat        = "INVALID_FORMAT"
	ValidationFailed     = "VALIDATION_ERROR"
)

var (
	// ErrModelNotFound is matched by model errors raised for an unknown model version.
	ErrModelNotFound = errors.New("model: version not found")
	// ErrEntryNotFound is matched by model errors raised for an unknown task or event.
	ErrEntryNotFound = errors.New("model: entry not found")
	// ErrLoop is matched by model errors raised for a cyclic event chain.
	ErrLoop = errors.New("model: loop detected")
	// ErrNoMatchingCondition is matched when no gateway branch evaluated to true.
	ErrNoMatchingCondition = errors.New("model: no matching condition")
)

// ModelError reports an undefined or invalid model, task or event.
type ModelError struct {
	Code    string
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel errors by code.
func (e *ModelError) Is(target error) bool {
	switch target {
	case ErrModelNotFound:
		return e.Code == UndefinedModelVersion
	case ErrEntryNotFound:
		return e.Code == UndefinedModelEntry
	case ErrLoop:
		return e.Code == LoopDetected
	}
	return false
}

// NewModelError creates a model error
func NewModelError(code string, format string, args ...interface{}) *ModelError {
	return &ModelError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// PluginError is raised by a plugin to abort processing. Params holds the
// ordered values used to render a localized message.
type PluginError struct {
	Context string
	Code    string
	Params  []string
	Message string
	Err     error
}

func (e *PluginError) Error() string {
	return formatHandlerError(e.Context, e.Code, e.Message, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a plugin error
func NewPluginError(context, code, message string, params ...string) *PluginError {
	return &PluginError{Context: context, Code: code, Message: message, Params: params}
}

// AdapterError is raised by an adapter to abort processing.
type AdapterError struct {
	Context string
	Code    string
	Params  []string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	return formatHandlerError(e.Context, e.Code, e.Message, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError creates an adapter error
func NewAdapterError(context, code, message string, params ...string) *AdapterError {
	return &AdapterError{Context: context, Code: code, Message: message, Params: params}
}

// BuildError reports a graph that cannot be turned into a model.
type BuildError struct {
	Source  string
	Element string
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	var parts []string
	if e.Source != "" {
		parts = append(parts, e.Source)
	}
	if e.Element != "" {
		parts = append(parts, "element "+e.Element)
	}
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	parts = append(parts, msg)
	return "build model: " + strings.Join(parts, ": ")
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// NewBuildError creates a build error for the supplied element
func NewBuildError(element string, format string, args ...interface{}) *BuildError {
	return &BuildError{Element: element, Message: fmt.Sprintf(format, args...)}
}

func formatHandlerError(context, code, message string, err error) string {
	ret := code
	if context != "" {
		ret = context + ": " + code
	}
	if message != "" {
		ret += ": " + message
	}
	if err != nil {
		ret += ": " + err.Error()
	}
	return ret
}
