// Package posts owns the client's canonical list of posts.
//
// Collection holds the list and its in-memory semantics: newest first,
// unique ids, tolerant edit and delete (a missing id is a no-op). Two Store
// implementations expose it to views:
//
//   - Local keeps posts purely in memory and never fails.
//   - Remote mirrors every mutation to the backend. Changes are applied
//     locally first and rolled back if the backend refuses them; a rollback
//     never brings back a post that was deleted meanwhile and never
//     overwrites a newer edit.
//
// Views read snapshots (List, Subscribe) and mutate only through the store.
package posts
