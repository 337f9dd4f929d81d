// Package field provides the modular arithmetic used by the curve and
// signature packages: reduction into [0, m) and modular inversion.
//
// All functions allocate and return fresh *big.Int values. Inputs are never
// modified, so a single modulus may be shared freely between goroutines.
package field
