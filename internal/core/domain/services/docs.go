// Package services provides domain services for business logic that does not
// naturally belong to a single aggregate root.
//
// The package includes:
//   - PromoEvaluator: A pure function evaluating promo codes against a cart
//   - RateCounter: A per-identity sliding-window attempt counter guarding the evaluator
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design principles.
package services
