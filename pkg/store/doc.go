// Package store provides remote [diagram.Store] backends.
//
// The local JSON file store lives in package diagram. This package adds a
// MongoDB store so several benchdraw instances (for example the HTTP
// server and the CLI) can share diagrams by key. Documents mirror the JSON
// file layout: name, and components with name, latex, params and
// position. Edges are not persisted.
package store
