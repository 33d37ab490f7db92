// Package execution defines the models and contracts for running
// submitted code inside a prepared workspace.
package execution
