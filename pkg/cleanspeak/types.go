package cleanspeak

import (
	"time"

	"github.com/google/uuid"
)

// Instant converts t to the epoch-millisecond form CleanSpeak uses for
// createInstant fields.
func Instant(t time.Time) int64 {
	return t.UnixMilli()
}

// FilterRequest is the body of Filter.
type FilterRequest struct {
	Content string          `json:"content"`
	Filter  *FilterSettings `json:"filter,omitempty"`
}

// FilterSettings narrows which filters run for a single Filter call.
type FilterSettings struct {
	Blacklist *BlacklistSettings `json:"blacklist,omitempty"`
}

// BlacklistSettings configures the blacklist filter.
type BlacklistSettings struct {
	Enabled  bool     `json:"enabled"`
	Severity Severity `json:"severity,omitempty"`
	Locales  []string `json:"locales,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Severity of a blacklist entry.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityMild   Severity = "mild"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	SeveritySevere Severity = "severe"
)

// FilterResponse is the success body of Filter.
type FilterResponse struct {
	Matches     []Match `json:"matches"`
	Replacement string  `json:"replacement,omitempty"`
}

// Match is one filter hit within the submitted content.
type Match struct {
	Start    int      `json:"start"`
	Length   int      `json:"length"`
	Matched  string   `json:"matched"`
	Root     string   `json:"root,omitempty"`
	Severity Severity `json:"severity,omitempty"`
	Locale   string   `json:"locale,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Type     string   `json:"type,omitempty"`
}

// ContentPartType identifies what a ContentPart holds.
type ContentPartType string

const (
	ContentPartText       ContentPartType = "text"
	ContentPartHyperlink  ContentPartType = "hyperlink"
	ContentPartImage      ContentPartType = "image"
	ContentPartVideo      ContentPartType = "video"
	ContentPartAudio      ContentPartType = "audio"
	ContentPartAttachment ContentPartType = "attachment"
	ContentPartName       ContentPartType = "name"
)

// ContentPart is a single piece of a content item.
type ContentPart struct {
	Type    ContentPartType `json:"type"`
	Name    string          `json:"name,omitempty"`
	Content string          `json:"content"`
}

// Content is an item submitted for moderation.
type Content struct {
	ApplicationID     uuid.UUID     `json:"applicationId"`
	CreateInstant     int64         `json:"createInstant"`
	Location          string        `json:"location,omitempty"`
	Parts             []ContentPart `json:"parts"`
	SenderID          uuid.UUID     `json:"senderId"`
	SenderDisplayName string        `json:"senderDisplayName,omitempty"`
	ReceiverIDs       []uuid.UUID   `json:"receiverIds,omitempty"`
}

// ModerateRequest is the body of Moderate and ModerateUpdate.
type ModerateRequest struct {
	Content Content `json:"content"`
}

// ContentAction is the decision CleanSpeak reached for a content item.
type ContentAction string

const (
	ContentActionAllow             ContentAction = "allow"
	ContentActionReplace           ContentAction = "replace"
	ContentActionReject            ContentAction = "reject"
	ContentActionQueuedForApproval ContentAction = "queuedForApproval"
	ContentActionAlert             ContentAction = "alert"
)

// ModerateResponse is the success body of Moderate.
type ModerateResponse struct {
	ContentAction ContentAction `json:"contentAction"`
	Content       *Content      `json:"content,omitempty"`
	Stored        bool          `json:"stored,omitempty"`
}

// FlagRequest is the body of Flag and FlagUser.
type FlagRequest struct {
	Flag Flag `json:"flag"`
}

// Flag describes a single user report.
type Flag struct {
	Comment       string    `json:"comment,omitempty"`
	CreateInstant int64     `json:"createInstant"`
	ReporterID    uuid.UUID `json:"reporterId"`
}
