package svm

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/pkg/errors"
)

// Table pairs a column-named view with a dense data matrix, the minimal
// table-style input accepted by TrainTable.
type Table struct {
	Names []string
	Data  *mat.Dense
}

// NewTable validates that the name list matches the matrix width and that
// names are unique and non-empty.
func NewTable(names []string, data *mat.Dense) (*Table, error) {
	const op = "svm.NewTable"
	if data == nil {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	_, c := data.Dims()
	if len(names) != c {
		return nil, errors.NewDimensionError(op, c, len(names), 1)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return nil, errors.NewValidationError("Names", "column names must be non-empty", name)
		}
		if seen[name] {
			return nil, errors.NewValidationError("Names", "column names must be unique", name)
		}
		seen[name] = true
	}
	return &Table{Names: names, Data: data}, nil
}

// column returns the index of a named column.
func (t *Table) column(name string) (int, bool) {
	for i, n := range t.Names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// ParseFormula parses a model formula of the form
//
//	response ~ predictor1 + predictor2
//	response ~ .
//
// and returns the response name and the predictor names. A nil predictor
// slice means "every column except the response" (the dot form). The
// grammar is strict: exactly one '~', a single response identifier, and
// non-empty, non-duplicate predictor terms.
func ParseFormula(formula string) (string, []string, error) {
	const op = "svm.ParseFormula"

	parts := strings.Split(formula, "~")
	if len(parts) != 2 {
		return "", nil, errors.NewValidationError("Formula",
			"must contain exactly one '~'", formula)
	}

	response := strings.TrimSpace(parts[0])
	if response == "" || strings.ContainsAny(response, " +") {
		return "", nil, errors.NewValidationError("Formula",
			"response must be a single column name", formula)
	}

	rhs := strings.TrimSpace(parts[1])
	if rhs == "" {
		return "", nil, errors.NewValidationError("Formula",
			"predictor side must not be empty", formula)
	}
	if rhs == "." {
		return response, nil, nil
	}

	var predictors []string
	seen := make(map[string]bool)
	for _, term := range strings.Split(rhs, "+") {
		term = strings.TrimSpace(term)
		if term == "" {
			return "", nil, errors.NewValidationError("Formula",
				"empty predictor term", formula)
		}
		if term == response {
			return "", nil, errors.NewValidationError("Formula",
				"response cannot appear as a predictor", formula)
		}
		if seen[term] {
			return "", nil, errors.NewValidationError("Formula",
				"duplicate predictor term", term)
		}
		seen[term] = true
		predictors = append(predictors, term)
	}
	return response, predictors, nil
}

// TrainTable trains an SVM classifier from a table and a model formula,
// selecting the response and predictor columns by name and delegating to
// Train with the same option surface.
func TrainTable(t *Table, formula string, opts ...Option) (*Model, error) {
	const op = "svm.TrainTable"
	if t == nil || t.Data == nil {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}

	response, predictors, err := ParseFormula(formula)
	if err != nil {
		return nil, err
	}

	respIdx, ok := t.column(response)
	if !ok {
		return nil, errors.NewValidationError("Formula",
			"response column not found in table", response)
	}

	if predictors == nil {
		for _, name := range t.Names {
			if name != response {
				predictors = append(predictors, name)
			}
		}
	}
	if len(predictors) == 0 {
		return nil, errors.NewValidationError("Formula",
			"no predictor columns", formula)
	}

	cols := make([]int, len(predictors))
	for i, name := range predictors {
		idx, ok := t.column(name)
		if !ok {
			return nil, errors.NewValidationError("Formula",
				"predictor column not found in table", name)
		}
		cols[i] = idx
	}

	n, _ := t.Data.Dims()
	X := mat.NewDense(n, len(cols), nil)
	Y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j, c := range cols {
			X.Set(i, j, t.Data.At(i, c))
		}
		Y.Set(i, 0, t.Data.At(i, respIdx))
	}

	return Train(X, Y, opts...)
}
