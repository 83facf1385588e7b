package domain

import "time"

// Origin identifies who produced a message
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// ContentType tells the renderer how assistant text is encoded.
// ContentUnknown leaves the decision to content sniffing.
type ContentType string

const (
	ContentUnknown  ContentType = ""
	ContentMarkdown ContentType = "markdown"
	ContentHTML     ContentType = "html"
)

// Message is a single transcript entry. Messages are never modified after
// they are appended.
type Message struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Origin      Origin      `json:"origin"`
	ContentType ContentType `json:"content_type,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	// RelatedDocuments is only set on assistant messages built from a remote reply
	RelatedDocuments []RelatedDocument `json:"related_documents,omitempty"`
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Origin == OriginUser
}
