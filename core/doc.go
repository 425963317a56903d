// Package core provides the foundational domain types used by DesignMesh. It
// defines the core abstractions for:
//
//   - Pipeline lifecycle status (strictly forward-progressing state machine)
//   - Room analysis, design plans and furniture records
//   - Multimodal content parts assembled into capability requests
//   - Pluggable artifact persistence scoped by session
//
// The package intentionally keeps implementation concerns (HTTP surface,
// pipeline orchestration, concrete capability adapters) out of scope, exposing
// small types and interfaces to enable custom backends and extensions.
package core
