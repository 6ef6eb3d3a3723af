package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultScheme is prepended to links entered without one.
const DefaultScheme = "https://"

// ErrEmptyURL is returned when a resource is built from a blank url.
var ErrEmptyURL = errors.New("resource url is empty")

// Resource is a learning link attached to the current session.
//
// A Resource is immutable once created: there is no update operation,
// callers replace a link by removing it and adding a new one.
type Resource struct {
	// ID is unique for the lifetime of the collection and never reused.
	ID string `json:"id"`

	// URL always carries a scheme.
	// Example: https://go.dev/doc
	URL string `json:"url"`

	// Title is user supplied, or the URL when left blank.
	Title string `json:"title"`

	// CreatedAt is the time the resource was added.
	CreatedAt time.Time `json:"created_at"`
}

// IDFunc produces resource identifiers.
type IDFunc func() string

// NewResourceID returns a time-ordered UUIDv7, falling back to a random
// UUIDv4 if the clock source fails.
func NewResourceID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NormalizeURL trims the input and prefixes DefaultScheme when it does not
// already start with "http". Anything else is kept as an opaque string.
func NormalizeURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http") {
		return u
	}
	return DefaultScheme + u
}

// ResolveTitle returns the trimmed title, or url when the title is blank.
func ResolveTitle(rawTitle, url string) string {
	if t := strings.TrimSpace(rawTitle); t != "" {
		return t
	}
	return url
}

// NewResource builds a Resource from raw form input.
func NewResource(rawURL, rawTitle string, newID IDFunc, now time.Time) (Resource, error) {
	url := NormalizeURL(rawURL)
	if url == "" {
		return Resource{}, ErrEmptyURL
	}
	if newID == nil {
		newID = NewResourceID
	}
	return Resource{
		ID:        newID(),
		URL:       url,
		Title:     ResolveTitle(rawTitle, url),
		CreatedAt: now,
	}, nil
}
