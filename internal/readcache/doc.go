// Package readcache provides the reading caches that sit between the
// document store and the renderer: two count-bounded LRU tiers (rendered
// and raw chapter content), a byte-budgeted LRU tier for encoded images,
// and a coordinator that owns one of each per open document.
//
// All caches are single-threaded by design. The bubbletea event loop is
// the only caller, so the hot path carries no locks; a future concurrent
// caller must wrap a tier in its own mutex at the call boundary.
package readcache
