// Package form holds the state of one create or edit form: field values,
// per-field errors and an optional image attachment.
//
// # Fields
//
// Every record has a primary label stored under MainField. BuildPayload
// renames it to the resource's backend key ("title" or "name"), and
// ApplyServerErrors maps that key back, so one form layout serves every
// resource. Editing a field clears only that field's error.
//
// # Files
//
// SelectFile and AttachFile sniff the content with mimetype and reject
// anything that is not an image or is larger than the size limit. The
// previous selection is kept on rejection. A selected file gets a local
// preview URL from the Previewer; the old URL is revoked before a new one
// is issued, and Close revokes whatever is left.
package form
