// Package svm implements support vector machine classification in the
// toolbox style: a Train constructor that validates name/value option
// pairs, normalizes them into an immutable configuration, delegates the
// numerical work to a LIBSVM-style external solver, and copies the solver
// output into a read-only model object.
//
// The option surface mirrors the toolbox contract: names are matched
// case-insensitively against a closed set, each value is checked against
// its type and range constraint before training starts, and the last
// occurrence of a repeated option wins. An invalid configuration never
// reaches the solver.
//
// The solver boundary is a typed request struct. Its serialized form is the
// classic flag-letter option string
//
//	-s <type> -t <kernel> -d <degree> -g <gamma> -r <offset> -c <cost>
//	-n <nu> -m <cache> -e <tol> -h <shrink> -b <prob> [-w<label> <weight> ...]
//	-v <folds>
//
// which is preserved byte-for-byte as a compatibility surface and exposed on
// the trained model.
package svm
