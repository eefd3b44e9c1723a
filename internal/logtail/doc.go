// Package logtail reads the console's activity log for the in-app activity
// pane.
//
// The log is written through the standard logger (tea.LogToFile) so every
// line has the form
//
//	2026/10/15 09:12:44 [cache] revalidate /api/admin/news: execute request: ...
//
// Read returns the last N lines using a ring buffer of size N, so memory
// stays bounded no matter how large the file grows. A missing file is not an
// error; the console may not have logged anything yet.
//
// Parse and ParseAll split lines into timestamp, component tag and message,
// and infer a severity from the message text so the UI can colour lines
// without the writers having to agree on a level prefix.
package logtail
