// Package preview issues "blob:" URLs for files that exist only in memory,
// such as an image picked in a form but not yet uploaded.
package preview
