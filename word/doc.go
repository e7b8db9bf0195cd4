// Package word implements the width-tagged machine value of the Rize-1 CPU.
//
// A Value is a 1-bit flag or an 8, 16, 32, 64 or 128-bit unsigned integer.
// All arithmetic wraps at the width of the primary operand and the result
// keeps that width; nothing is ever widened implicitly.
package word
