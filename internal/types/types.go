package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for Post.Date
const DateLayout = "2006-01-02"

// PostID is a server-assigned post identifier.
// The wire form may be a JSON string or a JSON number; the form is preserved on output.
type PostID struct {
	value   string
	numeric bool
}

// ParseID builds a PostID from user input (CLI argument, list selection).
// All-digit input is treated as numeric.
func ParseID(s string) PostID {
	s = strings.TrimSpace(s)
	if s == "" {
		return PostID{}
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return PostID{value: s, numeric: err == nil}
}

// StringID returns a PostID that always marshals as a JSON string
func StringID(s string) PostID {
	return PostID{value: s}
}

// String returns the identifier as used in URL paths
func (id PostID) String() string {
	return id.value
}

// IsZero reports whether the id is unset
func (id PostID) IsZero() bool {
	return id.value == ""
}

func (id PostID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = PostID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PostID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("post id must be a string or number: %w", err)
	}
	*id = PostID{value: n.String(), numeric: true}
	return nil
}

// MarshalYAML renders the id as a plain scalar
func (id PostID) MarshalYAML() (interface{}, error) {
	if id.numeric {
		if n, err := strconv.ParseInt(id.value, 10, 64); err == nil {
			return n, nil
		}
	}
	return id.value, nil
}

// Post is a blog entry as served by the posts collection
type Post struct {
	ID      PostID  `json:"id" yaml:"id"`
	Title   string  `json:"title" yaml:"title"`
	Author  string  `json:"author" yaml:"author"`
	Avatar  *string `json:"avatar" yaml:"avatar"`
	Date    string  `json:"date" yaml:"date"`
	Content string  `json:"content" yaml:"content"`
}

// AvatarURL returns the image reference, or "" when the post has none
func (p Post) AvatarURL() string {
	if p.Avatar == nil {
		return ""
	}
	return strings.TrimSpace(*p.Avatar)
}

// HasImage reports whether an image should be shown for the post
func (p Post) HasImage() bool {
	return p.AvatarURL() != ""
}

// Draft is the body of a create request
type Draft struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Author  string  `json:"author"`
	Avatar  *string `json:"avatar"`
	Date    string  `json:"date"`
}

// NewDraft builds a create body. An empty avatar becomes null and the date
// is the UTC calendar date of now.
func NewDraft(title, author, avatar, content string, now time.Time) Draft {
	d := Draft{
		Title:   title,
		Author:  author,
		Content: content,
		Date:    Today(now),
	}
	if avatar = strings.TrimSpace(avatar); avatar != "" {
		d.Avatar = &avatar
	}
	return d
}

// MissingField names the first required field left blank, or "" when the
// draft can be sent. Title and author are required.
func (d Draft) MissingField() string {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return "title"
	case strings.TrimSpace(d.Author) == "":
		return "author"
	}
	return ""
}

// Today formats now as a UTC calendar date
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// Patch is the body of an update request. Only title and content are ever sent.
type Patch struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Posts is an ordered post collection
type Posts []Post

// SortByNewest returns a copy sorted by date descending.
// Equal dates keep their original order; unparseable dates go last.
func (ps Posts) SortByNewest() Posts {
	type dated struct {
		post  Post
		date  time.Time
		valid bool
	}

	items := make([]dated, len(ps))
	for i, p := range ps {
		t, ok := ParseDate(p.Date)
		items[i] = dated{post: p, date: t, valid: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].valid != items[j].valid {
			return items[i].valid
		}
		return items[i].date.After(items[j].date)
	})

	out := make(Posts, len(items))
	for i, it := range items {
		out[i] = it.post
	}
	return out
}

// Find returns the post with the given id
func (ps Posts) Find(id PostID) (Post, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// IndexOf returns the position of id, or -1
func (ps Posts) IndexOf(id PostID) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ParseDate accepts a calendar date or a full RFC 3339 timestamp
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ActivityEntry is one recorded repository call
type ActivityEntry struct {
	ID           int64  `json:"id" yaml:"id"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	RequestID    string `json:"requestId" yaml:"requestId"`
	Operation    string `json:"operation" yaml:"operation"`
	Method       string `json:"method" yaml:"method"`
	URL          string `json:"url" yaml:"url"`
	Status       int    `json:"status" yaml:"status"`
	Duration     int64  `json:"duration" yaml:"duration"` // milliseconds
	RequestSize  int    `json:"requestSize,omitempty" yaml:"requestSize,omitempty"`
	ResponseSize int    `json:"responseSize,omitempty" yaml:"responseSize,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
	Profile      string `json:"profile,omitempty" yaml:"profile,omitempty"`
}
