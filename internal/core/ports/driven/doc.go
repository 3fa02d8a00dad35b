// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and generation models, the
// vector index, text extraction and persistence.
package driven
