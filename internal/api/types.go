package api

import "ura-xlaw/internal/domain"

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	StaffID  string `json:"staff_id"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
	Message string      `json:"message,omitempty"`
}

// ChatRequest is the body of POST /api/v1/chat
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the assistant reply with its retrieved documents
type ChatResponse struct {
	Message          string                   `json:"message"`
	SessionID        string                   `json:"session_id,omitempty"`
	RelatedDocuments []domain.RelatedDocument `json:"related_documents,omitempty"`
	Metadata         *Metadata                `json:"metadata,omitempty"`
}

// Metadata carries optional backend diagnostics
type Metadata struct {
	ProcessingTime *float64 `json:"processing_time,omitempty"`
}

// ProcessingTime returns the reported processing time in seconds, if any
func (r *ChatResponse) ProcessingTime() (float64, bool) {
	if r.Metadata == nil || r.Metadata.ProcessingTime == nil {
		return 0, false
	}
	return *r.Metadata.ProcessingTime, true
}

// NewChatResponse is returned by POST /api/chat/new
type NewChatResponse struct {
	SessionID string `json:"session_id"`
}

// DocumentSummary is a search hit from GET /api/documents/search
type DocumentSummary struct {
	DocumentID    string                `json:"document_id"`
	Title         string                `json:"title"`
	DocumentTitle string                `json:"document_title"`
	Status        domain.DocumentStatus `json:"document_status"`
	Score         float64               `json:"score"`
	Snippet       string                `json:"content_snippet"`
}

// SearchResponse wraps document search hits
type SearchResponse struct {
	Results []DocumentSummary `json:"results"`
}

// errorBody is the shape FastAPI and the auth service use for failures
type errorBody struct {
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}
