// Package prensa provides a library for managing multilingual publishing
// sites: users, sites, posts built from typed content blocks, comments,
// a per-site media library, usage analytics and social-share formatting.
//
// It exposes a single Service interface that orchestrates authoring,
// translation, permissions and analytics over a pluggable Repository.
// An in-memory repository is provided under repo/memory; nothing is
// persisted across process restarts.
//
// Language Handling
//
// Posts store one Content per language, keyed by the language's canonical
// code. The Directory resolves free-form codes (including aliases such as
// "pt" or "en") to canonical languages; codes it does not know become
// ad-hoc languages at authoring time, so the library never refuses a
// language it has not seen before.
package prensa
