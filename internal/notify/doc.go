// Package notify implements the console's toast center.
//
// A mutation opens a pending toast with Pending and later resolves the same
// toast in place with Success or Error. Resolved toasts expire after the
// center's TTL; pending ones stay until resolved or dismissed.
package notify
