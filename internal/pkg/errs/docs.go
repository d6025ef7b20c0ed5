// Package errs provides standardized error types for the quetzalship application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types covering the application's error taxonomy:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: malformed
//     or out-of-range input (invalid-argument category)
//   - ObjectNotFoundError: For when an object cannot be found by its identifier
//   - PreconditionFailedError: system state rejects the request; retrying verbatim will not help
//   - ServiceUnavailableError: a required dependency could not be reached; safe to retry
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach to error handling improves error reporting,
// makes error handling more consistent, and enables transport adapters to
// classify errors with errors.Is without parsing messages.
package errs
