package errors

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCheckMissing(t *testing.T) {
	clean := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if err := CheckMissing("svm.Train", clean); err != nil {
		t.Errorf("CheckMissing on clean data: %v", err)
	}

	dirty := mat.NewDense(2, 2, []float64{1, 2, math.NaN(), 4})
	err := CheckMissing("svm.Train", dirty)
	if err == nil {
		t.Fatal("expected error on NaN input")
	}
	var missErr *MissingValueError
	if !As(err, &missErr) {
		t.Fatalf("expected MissingValueError, got %T", err)
	}
	if missErr.Row != 1 || missErr.Col != 0 {
		t.Errorf("wrong location: row %d col %d", missErr.Row, missErr.Col)
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("Weights", []float64{1, 2, 3}); err != nil {
		t.Errorf("CheckFinite on finite data: %v", err)
	}
	if err := CheckFinite("Weights", []float64{1, math.Inf(1)}); err == nil {
		t.Error("expected error on Inf")
	}
}
