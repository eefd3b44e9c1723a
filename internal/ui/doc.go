// Package ui is the operator console: a Bubble Tea program that signs in,
// lists every admin resource and edits records through forms.
//
// # Structure
//
//   - app.go: Model, message routing and the Program wrapper
//   - view.go: header, tabs, list table, status line, toasts and command bar
//   - section.go, sections.go: adapters from resource collections and
//     singletons to rows and form fields
//   - editor.go: create/edit form with image picking
//   - login.go: sign-in view
//   - activity.go: tail of the console's own log file
//   - modal.go: confirmation dialog and the Confirmer bridge
//
// # Data flow
//
// Sections read straight from the shared cache on every render, so the view
// never holds its own copy of server data. Network work runs in tea.Cmd
// goroutines. Cache and notification listeners only poke a buffered
// channel; Program.Run forwards each poke as a redraw message, which keeps
// listeners from blocking on Program.Send while Update is running.
//
// Delete confirmation crosses the same boundary the other way: the resource
// layer calls Confirmer.Confirm from a command goroutine, the request
// arrives in Update as a message, and the dialog answers on a channel.
//
// # Revalidation
//
// Terminal focus events (tea.WithReportFocus) revalidate mounted keys through
// cache.Store.Focus. Signing in revalidates everything through Reconnect.
// Any 401/419 drops the operator back on the sign-in view.
//
// # Key Bindings
//
//   - Tab / Shift+Tab: next / previous section
//   - n, e, d: new, edit, delete
//   - r: refresh the current section
//   - L: switch content locale (id/en)
//   - T: cycle theme
//   - A: activity log
//   - x: dismiss the newest notification
//   - Q: sign out
//   - ?: help
//   - Ctrl+S: save form; Ctrl+O: choose image; Esc: back
//   - Ctrl+C: exit
package ui
