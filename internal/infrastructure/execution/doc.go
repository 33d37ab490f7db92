// Package execution runs submitted Python code in subprocesses with
// wall-clock, CPU, memory and output-size limits, and provisions
// per-workspace virtual environments.
package execution
