// Package net provides a feedforward neural-network classifier with the
// same name/value option surface and error taxonomy as the svm package.
//
// Train builds a dense network with a shared hidden activation and a
// softmax output layer, then fits it with full-batch gradient descent on
// the cross-entropy loss plus an optional L2 penalty:
//
//	m, err := net.Train(X, Y,
//		net.Opt("LayerSizes", []int{20, 10}),
//		net.Opt("Activation", "tanh"),
//		net.Opt("Standardize", true),
//	)
//
// Training is deterministic for a fixed RandomSeed.
package net
