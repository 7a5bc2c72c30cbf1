package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "svm.Train",
			kind:     "solver failure",
			err:      fmt.Errorf("test error"),
			wantMsg:  "classify: svm.Train: solver failure: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "svm.Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "classify: svm.Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}
		})
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("svm.Train", 10, 5, 0)

	want := "classify: svm.Train: dimension mismatch on axis 0 (rows): expected 10, got 5"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("expected errors.As to find *DimensionError")
	}
	if dimErr.Expected != 10 || dimErr.Got != 5 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("BoxConstraint", "must be a positive scalar", -1.0)

	if !strings.Contains(err.Error(), "BoxConstraint") {
		t.Errorf("error message should name the parameter: %v", err)
	}
	if !strings.Contains(err.Error(), "-1") {
		t.Errorf("error message should include the offending value: %v", err)
	}
}

func TestUnsupportedValueError(t *testing.T) {
	err := NewUnsupportedValueError("svm.Train", "KernelFunction", "quartic",
		[]string{"linear", "polynomial", "rbf", "sigmoid", "precomputed"})

	msg := err.Error()
	if !strings.Contains(msg, "quartic") || !strings.Contains(msg, "KernelFunction") {
		t.Errorf("unexpected message: %v", msg)
	}
	if !strings.Contains(msg, "polynomial") {
		t.Errorf("message should enumerate the allowed set: %v", msg)
	}
}

func TestUnknownOptionError(t *testing.T) {
	err := NewUnknownOptionError("svm.Train", "Bogus")

	var unkErr *UnknownOptionError
	if !As(err, &unkErr) {
		t.Fatal("expected errors.As to find *UnknownOptionError")
	}
	if unkErr.Option != "Bogus" {
		t.Errorf("Option = %q, want %q", unkErr.Option, "Bogus")
	}
}

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("SVMModel", "Predict")
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestMissingValueError(t *testing.T) {
	err := NewMissingValueError("svm.Train", 3, 1)
	want := "classify: svm.Train: input contains NaN at row 3, column 1"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewValidationError("Nu", "must be in (0, 1]", 1.5)
	wrapped := Wrap(base, "while building configuration")

	var valErr *ValidationError
	if !As(wrapped, &valErr) {
		t.Fatal("wrapping should preserve the concrete error type")
	}
}
