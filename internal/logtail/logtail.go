package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Severity is the inferred weight of an activity line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry is one parsed activity line.
type Entry struct {
	Timestamp string
	Component string
	Message   string
	Severity  Severity
}

// log.LstdFlags prefix followed by an optional "[component]" tag.
var linePattern = regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}(?:\.\d+)?)\s+(?:\[([a-z0-9_-]+)\]\s*)?(.*)$`)

var (
	errorWords = []string{"error", "failed", "fail:", "unauthenticated", "refused"}
	warnWords  = []string{"offline", "stale", "expired", "skipped", "retry"}
)

// Parse splits a log line into its parts. Lines that do not carry the
// standard timestamp are returned whole as the message.
func Parse(line string) Entry {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{Message: line, Severity: classify(line)}
	}
	return Entry{
		Timestamp: m[1],
		Component: m[2],
		Message:   m[3],
		Severity:  classify(m[3]),
	}
}

// ParseAll parses each line, dropping blank ones.
func ParseAll(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Parse(line))
	}
	return out
}

// Filter keeps entries whose component matches (empty matches all) and whose
// severity is at least min.
func Filter(entries []Entry, component string, min Severity) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if component != "" && e.Component != component {
			continue
		}
		if e.Severity < min {
			continue
		}
		out = append(out, e)
	}
	return out
}

func classify(msg string) Severity {
	lower := strings.ToLower(msg)
	for _, w := range errorWords {
		if strings.Contains(lower, w) {
			return SeverityError
		}
	}
	for _, w := range warnWords {
		if strings.Contains(lower, w) {
			return SeverityWarn
		}
	}
	return SeverityInfo
}
