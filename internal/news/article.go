package news

import (
	"time"
)

// StatusOK is the body status of a successful upstream response.
const StatusOK = "ok"

// displayLayout renders timestamps as day-month hour:minute.
const displayLayout = "02-01 15:04"

// Result is one decoded upstream response.
type Result struct {
	Status       string       `json:"status"`
	Code         string       `json:"code,omitempty"`
	Message      string       `json:"message,omitempty"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
}

// OK reports whether the upstream marked the response successful.
func (r *Result) OK() bool { return r != nil && r.Status == StatusOK }

// RawArticle is an article as the upstream API returns it.
type RawArticle struct {
	PublishedAt string `json:"publishedAt"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// DisplayArticle is an article ready for rendering.
type DisplayArticle struct {
	PublishedAt string
	Title       string
	URL         string
	Source      string
}

// isoLayouts are the ISO-8601 shapes accepted for publishedAt, tried in order.
// RFC3339Nano also accepts timestamps without fractional seconds.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp, keeping its published offset.
func ParseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &TimestampError{Value: s, Err: firstErr}
}

// Normalize converts raw into its display form. The timestamp is shown in
// the offset it was published with.
func Normalize(raw RawArticle) (DisplayArticle, error) {
	t, err := ParseTimestamp(raw.PublishedAt)
	if err != nil {
		return DisplayArticle{}, err
	}
	return DisplayArticle{
		PublishedAt: t.Format(displayLayout),
		Title:       raw.Title,
		URL:         raw.URL,
		Source:      raw.Source.Name,
	}, nil
}
