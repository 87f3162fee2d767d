// Package store defines narrow persistence interfaces for the domain
// entities, shared store errors, and transaction helpers. Backends live
// under internal/platform.
package store
