// Package mocks provides test doubles: stateful in-memory store fakes for
// exercising the service layer without a database, and function-field mocks
// for the service interfaces consumed by the HTTP layer.
package mocks
