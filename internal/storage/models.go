// Package storage provides the persistent fact store for the campaign knowledge base.
package storage

import (
	"fmt"
	"time"
)

// DefaultLanguage is the fallback language always included in
// language-filtered queries alongside the requested language.
const DefaultLanguage = "en"

// ContentType classifies a knowledge item.
type ContentType string

const (
	ContentTypePolicy            ContentType = "policy"
	ContentTypeBiography         ContentType = "biography"
	ContentTypeSpeech            ContentType = "speech"
	ContentTypeVotingRecord      ContentType = "voting_record"
	ContentTypePositionStatement ContentType = "position_statement"
	ContentTypeFAQ               ContentType = "faq"
	ContentTypeNewsArticle       ContentType = "news_article"
	ContentTypeCampaignEvent     ContentType = "campaign_event"
	ContentTypeEndorsement       ContentType = "endorsement"
)

// ParseContentType validates a stored content type tag. Unrecognized values
// fail at the store boundary instead of ranking incorrectly later.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentTypePolicy, ContentTypeBiography, ContentTypeSpeech,
		ContentTypeVotingRecord, ContentTypePositionStatement, ContentTypeFAQ,
		ContentTypeNewsArticle, ContentTypeCampaignEvent, ContentTypeEndorsement:
		return ContentType(s), nil
	}
	return "", fmt.Errorf("unknown content type: %q", s)
}

// SourceCredibility is the trust tier of a knowledge source.
type SourceCredibility string

const (
	// CredibilityPrimary covers official campaign sources.
	CredibilityPrimary SourceCredibility = "primary"
	// CredibilityVerified covers trusted news sources and government records.
	CredibilityVerified SourceCredibility = "verified"
	// CredibilitySecondary covers other reputable sources.
	CredibilitySecondary SourceCredibility = "secondary"
	// CredibilityUnverified covers social media and unverified claims.
	CredibilityUnverified SourceCredibility = "unverified"
)

// ParseSourceCredibility validates a stored credibility tag.
func ParseSourceCredibility(s string) (SourceCredibility, error) {
	switch SourceCredibility(s) {
	case CredibilityPrimary, CredibilityVerified, CredibilitySecondary, CredibilityUnverified:
		return SourceCredibility(s), nil
	}
	return "", fmt.Errorf("unknown source credibility: %q", s)
}

// Weight returns the multiplier used when aggregating answer confidence.
func (c SourceCredibility) Weight() float64 {
	switch c {
	case CredibilityPrimary:
		return 1.0
	case CredibilityVerified:
		return 0.8
	case CredibilitySecondary:
		return 0.6
	default:
		return 0.3
	}
}

// KnowledgeSource records the provenance of a knowledge item. A source is
// owned by exactly one item and is replaced wholesale on every upsert.
type KnowledgeSource struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	SourceType  string            `json:"source_type"`
	Credibility SourceCredibility `json:"credibility"`
	PublishedAt *time.Time        `json:"date_published,omitempty"`
	Author      *string           `json:"author,omitempty"`
	Language    string            `json:"language"`
}

// KnowledgeItem is a single curated fact with retrieval metadata.
type KnowledgeItem struct {
	ID              string            `json:"id"`
	Content         string            `json:"content"`
	ContentType     ContentType       `json:"content_type"`
	Topic           string            `json:"topic"`
	Subtopic        *string           `json:"subtopic,omitempty"`
	Keywords        []string          `json:"keywords"`
	Sources         []KnowledgeSource `json:"sources"`
	ConfidenceScore float64           `json:"confidence_score"`
	Language        string            `json:"language"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Validate checks the invariants the store relies on.
func (item *KnowledgeItem) Validate() error {
	if item.ID == "" {
		return fmt.Errorf("knowledge item missing id")
	}
	if item.Content == "" {
		return fmt.Errorf("knowledge item %s missing content", item.ID)
	}
	if item.Topic == "" {
		return fmt.Errorf("knowledge item %s missing topic", item.ID)
	}
	if _, err := ParseContentType(string(item.ContentType)); err != nil {
		return fmt.Errorf("knowledge item %s: %w", item.ID, err)
	}
	for _, src := range item.Sources {
		if _, err := ParseSourceCredibility(string(src.Credibility)); err != nil {
			return fmt.Errorf("knowledge item %s: %w", item.ID, err)
		}
	}
	return nil
}

// PrimarySource returns the first source, or nil when the item has none.
func (item *KnowledgeItem) PrimarySource() *KnowledgeSource {
	if len(item.Sources) == 0 {
		return nil
	}
	return &item.Sources[0]
}

// TopicCount pairs a topic with its item count, ordered by count in
// Statistics.TopTopics.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Statistics summarizes committed store contents.
type Statistics struct {
	TotalItems    int            `json:"total_items"`
	ByContentType map[string]int `json:"by_content_type"`
	ByLanguage    map[string]int `json:"by_language"`
	TopTopics     []TopicCount   `json:"top_topics"`
}
