// Package cache implements the console's stale-while-revalidate store.
//
// # Overview
//
// Every resource the console shows is cached under its request path. The
// Store is the only shared mutable state between the UI loop and the
// background commands that talk to the backend:
//
//	tea.Cmd goroutines            UI (Update/View)
//	┌──────────────────┐          ┌────────────────┐
//	│ Revalidate(key)  │          │                │
//	│ Mutate/Apply     │─────────→│ Read(key)      │
//	│      ↓           │ (mutex)  │      ↓         │
//	│ OnChange(key)    │─────────→│ redraw         │
//	└──────────────────┘          └────────────────┘
//
// # Semantics
//
//   - Read never blocks. IsLoading is true only while neither data nor an
//     error has been cached for the key.
//   - A failed fetch records Err and keeps the last data on screen.
//   - Mutate writes immediately. The value stays unconfirmed until the next
//     successful fetch and reverts to the last confirmed value if that
//     fetch fails. With revalidate set, Mutate blocks until that fetch is
//     done.
//   - Apply is for edits derived from acknowledged responses and is
//     confirmed at once. It is folded into the confirmed value under a
//     pending Mutate, so a revert keeps it.
//   - A fetch that began before a local write is discarded when it lands.
//   - Concurrent fetches of one key are coalesced with singleflight.
//
// # Triggers
//
// Focus and Reconnect revalidate every mounted key. Focus is throttled per
// key (DefaultFocusThrottle). There is no polling interval.
package cache
