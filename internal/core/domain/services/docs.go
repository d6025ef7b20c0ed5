// Package services contains stateless domain services that implement
// business logic spanning value objects, such as pricing an order from its
// package geometry and service options.
package services
