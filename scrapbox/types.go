package scrapbox

import (
	"strings"
	"time"
)

// User is the author attached to pages and lines
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Photo       string `json:"photo,omitempty"`
}

// PageSummary is one entry of a page listing
type PageSummary struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Image           string   `json:"image,omitempty"`
	Descriptions    []string `json:"descriptions,omitempty"`
	User            *User    `json:"user,omitempty"`
	Pin             int64    `json:"pin"`
	Views           int      `json:"views"`
	Linked          int      `json:"linked"`
	CommitID        string   `json:"commitId,omitempty"`
	Created         int64    `json:"created"`
	Updated         int64    `json:"updated"`
	Accessed        int64    `json:"accessed"`
	SnapshotCreated int64    `json:"snapshotCreated,omitempty"`
	PageRank        float64  `json:"pageRank,omitempty"`
}

// IsPinned reports whether the page is pinned to the top of the project
func (p *PageSummary) IsPinned() bool {
	return p.Pin != 0
}

// UpdatedAt returns the last update time
func (p *PageSummary) UpdatedAt() time.Time {
	return unixTime(p.Updated)
}

// PageList is the response of the page listing endpoint. When produced by
// GetAllPages, Skip is 0, Limit is the batch size and Count is len(Pages).
type PageList struct {
	ProjectName string        `json:"projectName"`
	Skip        int           `json:"skip"`
	Limit       int           `json:"limit"`
	Count       int           `json:"count"`
	Pages       []PageSummary `json:"pages"`
}

// Line is a single line of a page
type Line struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	UserID  string `json:"userId,omitempty"`
	Created int64  `json:"created,omitempty"`
	Updated int64  `json:"updated,omitempty"`
}

// Page is the structured content of a single page
type Page struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Image        string   `json:"image,omitempty"`
	Descriptions []string `json:"descriptions,omitempty"`
	Pin          int64    `json:"pin"`
	Views        int      `json:"views"`
	Linked       int      `json:"linked"`
	CommitID     string   `json:"commitId,omitempty"`
	Created      int64    `json:"created"`
	Updated      int64    `json:"updated"`
	Accessed     int64    `json:"accessed"`
	LinesCount   int      `json:"linesCount"`
	CharsCount   int      `json:"charsCount"`
	Persistent   bool     `json:"persistent"`
	User         *User    `json:"user,omitempty"`
	Lines        []Line   `json:"lines"`
	Links        []string `json:"links,omitempty"`
}

// CreatedAt returns the creation time
func (p *Page) CreatedAt() time.Time {
	return unixTime(p.Created)
}

// UpdatedAt returns the last update time
func (p *Page) UpdatedAt() time.Time {
	return unixTime(p.Updated)
}

// Text joins the page lines the way the text endpoint renders them
func (p *Page) Text() string {
	texts := make([]string, 0, len(p.Lines))
	for _, line := range p.Lines {
		texts = append(texts, line.Text)
	}
	return strings.Join(texts, "\n")
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
