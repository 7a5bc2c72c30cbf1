// Package errors provides the structured error taxonomy shared by every
// model constructor in classify. The categories follow the toolbox contract:
// shape errors, type errors, domain errors, unsupported-value errors,
// unknown-option errors and missing-value errors. All constructors attach a
// stack trace and every error surfaces as a descriptive, component-prefixed
// message; validation failures are raised synchronously and abort
// construction entirely.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// DimensionError reports a mismatch between row or column counts, either
// between X and Y during training or between the training and prediction
// feature counts.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("classify: %s: dimension mismatch on axis %d (%s): expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError reports a hyperparameter value of the correct type lying
// outside its allowed range (a domain error).
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("classify: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// TypeError reports an option value of the wrong Go type, for example a
// string where a numeric scalar is required.
type TypeError struct {
	Op        string
	ParamName string
	Expected  string
	Value     interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("classify: %s: parameter '%s' must be %s (got %T)", e.Op, e.ParamName, e.Expected, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *TypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param_name", e.ParamName).
		Str("expected", e.Expected).
		Interface("value", e.Value).
		Str("type", "TypeError")
}

// NewTypeError creates a TypeError with a stack trace.
func NewTypeError(op, param, expected string, value interface{}) error {
	err := &TypeError{Op: op, ParamName: param, Expected: expected, Value: value}
	return errors.WithStack(err)
}

// UnsupportedValueError reports a value of the correct type that is not a
// member of the enumerated allowed set for its option.
type UnsupportedValueError struct {
	Op        string
	ParamName string
	Value     interface{}
	Allowed   []string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("classify: %s: unsupported value %v for parameter '%s' (allowed: %s)", e.Op, e.Value, e.ParamName, strings.Join(e.Allowed, ", "))
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *UnsupportedValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param_name", e.ParamName).
		Interface("value", e.Value).
		Strs("allowed", e.Allowed).
		Str("type", "UnsupportedValueError")
}

// NewUnsupportedValueError creates an UnsupportedValueError with a stack trace.
func NewUnsupportedValueError(op, param string, value interface{}, allowed []string) error {
	err := &UnsupportedValueError{Op: op, ParamName: param, Value: value, Allowed: allowed}
	return errors.WithStack(err)
}

// UnknownOptionError reports an option name that is not recognized by the
// constructor it was passed to. Option names are matched case-insensitively,
// so this fires only for names outside the closed option set.
type UnknownOptionError struct {
	Op     string
	Option string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("classify: %s: unknown option '%s'", e.Op, e.Option)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *UnknownOptionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("option", e.Option).
		Str("type", "UnknownOptionError")
}

// NewUnknownOptionError creates an UnknownOptionError with a stack trace.
func NewUnknownOptionError(op, option string) error {
	err := &UnknownOptionError{Op: op, Option: option}
	return errors.WithStack(err)
}

// MissingValueError reports a NaN found in an input matrix where missing
// values are disallowed.
type MissingValueError struct {
	Op  string
	Row int
	Col int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("classify: %s: input contains NaN at row %d, column %d", e.Op, e.Row, e.Col)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *MissingValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("row", e.Row).
		Int("col", e.Col).
		Str("type", "MissingValueError")
}

// NewMissingValueError creates a MissingValueError with a stack trace.
func NewMissingValueError(op string, row, col int) error {
	err := &MissingValueError{Op: op, Row: row, Col: col}
	return errors.WithStack(err)
}

// NotFittedError reports a Predict-style call on a model whose constructor
// never completed.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("classify: %s: this model is not fitted. Train it before calling %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ModelError is the general wrapper for failures inside a model operation,
// including errors propagated from the external solver.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classify: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("classify: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors passthroughs
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ErrEmptyData is returned when an input matrix has no rows or columns.
var ErrEmptyData = New("empty data")
