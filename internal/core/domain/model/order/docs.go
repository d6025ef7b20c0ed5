// Package order contains the order aggregate and its value objects:
// shipping zones, service types, packages, discounts, the priced breakdown,
// and the order lifecycle state machine.
//
// The aggregate enforces the core invariants of the system:
//   - every order carries at least one package
//   - packages, discount and breakdown are immutable once attached
//   - status only ever transitions ACTIVE -> CANCELLED, and CANCELLED is terminal
//   - the cancellation timestamp is set exactly once, on that transition
package order
