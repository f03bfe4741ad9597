package domain

import "github.com/google/uuid"

// Item is one piece of user content queued for moderation.
type Item struct {
	// Key names the item in logs and events; unique within a batch.
	Key           string     `json:"key" yaml:"key"`
	ContentID     *uuid.UUID `json:"content_id,omitempty" yaml:"content_id"`
	ApplicationID uuid.UUID  `json:"application_id" yaml:"application_id"`
	SenderID      uuid.UUID  `json:"sender_id" yaml:"sender_id"`
	Location      string     `json:"location,omitempty" yaml:"location"`

	// At least one content source is set.
	Text      string `json:"text,omitempty" yaml:"text"`
	HTML      string `json:"html,omitempty" yaml:"html"`
	SourceURL string `json:"source_url,omitempty" yaml:"source_url"`

	Flag *FlagSpec `json:"flag,omitempty" yaml:"flag"`
}

// FlagSpec asks for the item to be flagged once moderated.
type FlagSpec struct {
	ReporterID uuid.UUID `json:"reporter_id" yaml:"reporter_id"`
	Comment    string    `json:"comment,omitempty" yaml:"comment"`
}
