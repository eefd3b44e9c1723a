// Package feedimport creates news records from an RSS or Atom feed.
//
// Items are parsed with gofeed and posted through the news collection.
// Excerpts are the description's plain text, extracted with goquery and
// cut at a word boundary. Items whose title matches an existing record are
// skipped, which makes repeated imports safe.
package feedimport
