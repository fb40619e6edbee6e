package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrUnknownKind     = errors.New("unknown listing kind")
	ErrNotPoster       = errors.New("only the poster may remove this listing")
)

type Kind string

const (
	KindOpportunity Kind = "opportunity"
	KindScholarship Kind = "scholarship"
)

// ParseKind accepts singular and plural spellings.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "opportunity", "opportunities":
		return KindOpportunity, nil
	case "scholarship", "scholarships":
		return KindScholarship, nil
	}
	return "", ErrUnknownKind
}

// Listing is an opportunity or scholarship announcement.
type Listing struct {
	ID           string    `json:"id" yaml:"-"`
	Kind         Kind      `json:"kind" yaml:"kind"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	Category     string    `json:"category,omitempty" yaml:"category"`
	Organization string    `json:"organization,omitempty" yaml:"organization"`
	Location     string    `json:"location,omitempty" yaml:"location"`
	Link         string    `json:"link,omitempty" yaml:"link"`
	Deadline     string    `json:"deadline,omitempty" yaml:"deadline"`
	Amount       string    `json:"amount,omitempty" yaml:"amount"`
	Requirements []string  `json:"requirements" yaml:"requirements"`
	Tags         []string  `json:"tags" yaml:"tags"`
	PostedBy     string    `json:"postedBy,omitempty" yaml:"-"`
	CreatedAt    time.Time `json:"createdAt" yaml:"-"`
}

// Matches filters by category (case-insensitive) and free text over title, description and organization.
func (l Listing) Matches(category, search string) bool {
	if category = strings.TrimSpace(category); category != "" && !strings.EqualFold(l.Category, category) {
		return false
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, field := range []string{l.Title, l.Description, l.Organization} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
