// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The catalog flattener and the matcher are pure functions; MatchService
// wires them to catalog sources, the embedder, and the cache.
package services
