// Package entitystore defines the storage contract shared by the persistence
// engine and its consumers: listing result shapes and the sentinel errors a
// storage engine reports independent of the database driver in use.
//
// The concrete Postgres implementation lives in the postgresengine
// sub-package; feature packages depend on narrow, consumer-defined interfaces
// and only reference this package for the shared types.
package entitystore
