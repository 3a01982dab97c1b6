// Package catalog holds the owned prompt and education topic collections,
// the read-only suggested templates, and the commands and views over them.
package catalog

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DefaultCategory is assigned to prompts saved without a category.
const DefaultCategory = "Custom"

type Prompt struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	IsFavorite  bool     `json:"isFavorite"`
	Tags        []string `json:"tags"`
	UsageCount  int      `json:"usageCount"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	// SuggestedID links an adopted copy to its suggested template.
	SuggestedID int `json:"suggestedId,omitempty"`
}

func (p Prompt) clone() Prompt {
	p.Tags = append([]string{}, p.Tags...)
	return p
}

type Topic struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Source string

const (
	SourceOwned     Source = "owned"
	SourceSuggested Source = "suggested"
)

// PromptRef names a prompt in one of the two identity spaces.
type PromptRef struct {
	Source Source
	ID     int
}

func Owned(id int) PromptRef {
	return PromptRef{Source: SourceOwned, ID: id}
}

func Suggested(id int) PromptRef {
	return PromptRef{Source: SourceSuggested, ID: id}
}

// PromptFields is the editable part of a prompt as entered by a user. Tags
// is the raw comma-separated list.
type PromptFields struct {
	Title       string
	Category    string
	Description string
	Tags        string
}

type TopicFields struct {
	Title   string
	Content string
}

// ParseTags splits raw on commas, trims each tag and drops empty ones.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags is the inverse of ParseTags for editing forms.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

type AdoptionState int

const (
	NotAdopted AdoptionState = iota
	AdoptedNotFavorite
	AdoptedFavorite
)

func (s AdoptionState) String() string {
	switch s {
	case AdoptedNotFavorite:
		return "adopted"
	case AdoptedFavorite:
		return "adopted-favorite"
	default:
		return "not-adopted"
	}
}
