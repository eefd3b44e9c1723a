package feedimport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/resource"
)

// excerptRunes bounds the excerpt derived from an item's description.
const excerptRunes = 200

// Result counts what an import did.
type Result struct {
	Created int
	Skipped int
}

// Importer turns feed items into news records through the news collection,
// so created records land in the shared cache exactly like console edits.
type Importer struct {
	parser *gofeed.Parser
	news   *resource.Collection[api.News]
	now    func() time.Time
}

// New returns an Importer writing to news.
func New(news *resource.Collection[api.News]) *Importer {
	return &Importer{parser: gofeed.NewParser(), news: news, now: time.Now}
}

// Import fetches feedURL and creates up to limit news records (all items
// when limit is not positive). Items whose title already exists are
// skipped, so running the same import twice is harmless. A 401/419 stops
// the import; any other per-item failure is logged and counted as skipped.
func (im *Importer) Import(ctx context.Context, feedURL string, limit int) (Result, error) {
	feed, err := im.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return Result{}, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return im.importFeed(ctx, feed, limit)
}

func (im *Importer) importFeed(ctx context.Context, feed *gofeed.Feed, limit int) (Result, error) {
	if err := im.news.Load(ctx); err != nil {
		return Result{}, fmt.Errorf("load news: %w", err)
	}
	seen := make(map[string]bool)
	for _, n := range im.news.State().Data {
		seen[titleKey(n.Title)] = true
	}

	var res Result
	for _, item := range feed.Items {
		if limit > 0 && res.Created >= limit {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" || seen[titleKey(title)] {
			res.Skipped++
			continue
		}

		body := im.body(item, title)
		if _, err := im.news.Create(ctx, body, resource.Callbacks[api.News]{}); err != nil {
			if errors.Is(err, api.ErrUnauthenticated) || ctx.Err() != nil {
				return res, err
			}
			log.Printf("[import] skipped %q: %v", title, err)
			res.Skipped++
			continue
		}
		seen[titleKey(title)] = true
		res.Created++
	}
	log.Printf("[import] %s: %d created, %d skipped", feed.Title, res.Created, res.Skipped)
	return res, nil
}

func (im *Importer) body(item *gofeed.Item, title string) *api.Multipart {
	content := item.Content
	if strings.TrimSpace(content) == "" {
		content = item.Description
	}
	published := im.now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return api.NewMultipart().
		Set("title", title).
		Set("excerpt", excerpt(item.Description, content)).
		Set("content", strings.TrimSpace(content)).
		Set("published_at", published.UTC().Format(time.RFC3339))
}

// excerpt is the plain text of the description (or content), cut at a word
// boundary.
func excerpt(description, content string) string {
	text := plainText(description)
	if text == "" {
		text = plainText(content)
	}
	if utf8.RuneCountInString(text) <= excerptRunes {
		return text
	}
	cut := string([]rune(text)[:excerptRunes])
	if i := strings.LastIndexByte(cut, ' '); i > excerptRunes/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

// plainText strips markup and collapses whitespace.
func plainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func titleKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
