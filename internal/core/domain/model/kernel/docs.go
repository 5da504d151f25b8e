// Package kernel provides core domain primitives for the storefront order
// pipeline. It implements fundamental building blocks following
// Domain-Driven Design principles that are used throughout the domain model.
//
// The package includes:
//   - OrderID: The six-digit human-readable order code shared across all three systems
//   - UUID: A value object for buyer identity with validation and comparison capabilities
//   - Money: Integer hryvnia amounts with exact arithmetic and staff-facing formatting
//   - Address: A tagged variant of street address or carrier pickup point
//   - TrackingNumber: The fourteen-digit carrier shipment identifier
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are designed to be
// immutable and thread-safe, making them suitable for concurrent use.
package kernel
