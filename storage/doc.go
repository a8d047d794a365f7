// Package storage holds the MongoDB-backed repositories and their document
// models. Repositories take a *mongo.Database and expose typed operations;
// driver errors are normalized to the package sentinels so callers never
// inspect driver types.
package storage
