// Package util holds small generic helpers shared across packages:
// size parsing for config values, zero-value coalescing, and slice
// de-duplication.
package util
