// Package utils provides internal utility functions for the seascape service.
// This package is not intended to be imported by external code.
//
// It contains time formatting and conversion utilities shared by the SIRI
// and HTTP layers.
package utils
