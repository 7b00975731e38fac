// Package normalisers provides implementations of the Normaliser
// interface for the supported origin types. Each normaliser knows how
// to extract plain text from one intake format.
//
// Normalisers are registered with the Registry at startup; the registry
// picks the highest-priority normaliser claiming the intake's origin.
package normalisers
