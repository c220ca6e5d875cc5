package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tag is a free-text label that can be attached to any number of events
type Tag struct {
	ID   uint   `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Tagging links a tag to an event
type Tagging struct {
	EventID uint   `db:"eventId"`
	TagName string `db:"name"`
}

// NormalizeTags trims the given tag names and drops empty names and duplicates. Tag names are compared without
// regard to case - the first spelling wins
func NormalizeTags(tags []string) []string {
	ret := []string{}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(norm.NFC.String(tag))
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		ret = append(ret, tag)
	}
	return ret
}
