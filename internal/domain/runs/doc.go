// Package runs defines the run metadata entity, its lifecycle and the
// contracts implemented by the application services and persistence layer.
package runs
