// Package kernel contains shared domain primitives used across aggregates.
// These value objects are immutable, validated at construction, and carry
// no behavior beyond their own invariants.
package kernel
