// Package connector provides artifact storage implementations backed by
// Azure Blob Storage and the local filesystem.
package connector
