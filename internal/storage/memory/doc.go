// Package memory provides the in-process session store.
//
// Sessions live in a sharded map (pkg/cmap). Mutations of one session run
// under its shard's write lock, so concurrent progress calls for the same
// id are serialized while different ids proceed in parallel. The idle
// sweep takes the same locks shard by shard, so it never deletes a session
// mid-update and a deleted session cannot be found again.
//
// Nothing is persisted; a restart drops every session and players start
// over.
package memory
