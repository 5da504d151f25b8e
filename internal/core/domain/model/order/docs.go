// Package order provides domain entities and business logic for order
// management in the storefront. It implements the Order aggregate root with
// lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, lines, totals, and lifecycle
//   - Line: An immutable order position with its total fixed at creation time
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders must have a valid six-digit ID, buyer, address, and at least one line
//   - The total equals the sum of line totals minus the discount, fixed at creation
//   - Status follows a defined workflow: Pending -> Confirmed -> Shipped -> Delivered,
//     with Cancelled reachable from Pending and Confirmed only
//   - The shipped transition requires a fourteen-digit carrier tracking number
//   - Orders are never deleted from the store of record
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
