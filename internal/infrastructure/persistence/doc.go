// Package persistence provides GORM-backed repositories and database
// connection management for run metadata.
package persistence
