// Package domain contains the core business entities and rules for
// paperpilot: documents, chunks, retrieval scopes and the metadata
// filter model. It has no dependencies on adapters or infrastructure.
package domain
