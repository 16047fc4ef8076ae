// Package main hosts the podsubs CLI entrypoint and command graph.
//
// The Cobra-based command tree turns podcast audio (or a saved words JSON)
// into styled subtitles, and exposes transcript cache maintenance, readiness
// checks, and configuration scaffolding. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
