package web

import (
	"fmt"
	"html/template"
	"net/http"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/chat"
	"ura-xlaw/internal/domain"
	"ura-xlaw/internal/render"
)

type loginPage struct {
	Error   string
	StaffID string
}

type chatPage struct {
	User      *domain.User
	Messages  []messageView
	Documents []documentView
	Refs      []chat.Reference
	Shortcuts []chat.Shortcut
	Draft     string
	Notice    string
	Query     string
	Searched  bool
	Results   []api.DocumentSummary
}

type messageView struct {
	ID   string
	User bool
	Time string
	// Body is rendered markup. Assistant HTML is trusted as delivered by
	// the backend; user text was escaped by the renderer.
	Body template.HTML
}

type documentView struct {
	ID     string
	Title  string
	Score  string
	Status domain.DocumentStatus
	Groups []groupView
}

type groupView struct {
	Label string
	Items []relationshipView
}

type relationshipView struct {
	DocumentID string
	Anchor     string
	Text       string
	Toggle     bool
	Expanded   bool
}

type documentPage struct {
	ID        string
	Title     string
	Kind      string
	Status    domain.DocumentStatus
	Effective string
	Expired   string
	Content   string
}

func (s *Server) chatPage(r *http.Request) chatPage {
	ws := workspaceFrom(r)
	msgs := ws.Chat.Messages()

	page := chatPage{
		User:      ws.Auth.State().User,
		Refs:      chat.QuickReferences,
		Shortcuts: chat.Shortcuts,
	}
	for _, msg := range msgs {
		page.Messages = append(page.Messages, messageView{
			ID:   msg.ID,
			User: msg.IsUser(),
			Time: msg.CreatedAt.Format("15:04"),
			Body: template.HTML(s.renderer.RenderMessage(msg)),
		})
	}

	// the panel follows the latest reply that retrieved documents
	for i := len(msgs) - 1; i >= 0; i-- {
		if len(msgs[i].RelatedDocuments) > 0 {
			page.Documents = documentViews(msgs[i].RelatedDocuments, ws.Disclosure)
			break
		}
	}
	return page
}

func documentViews(docs []domain.RelatedDocument, disclosure *render.Disclosure) []documentView {
	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		v := documentView{
			ID:     doc.DocumentID,
			Title:  newDocumentPage(doc).Title,
			Score:  fmt.Sprintf("%.1f%%", doc.SimilarityScore*100),
			Status: doc.Status,
		}
		for _, g := range domain.GroupRelationships(doc.Relationships.Incoming) {
			v.Groups = append(v.Groups, groupView{
				Label: "Bị sửa đổi, bổ sung bởi · " + g.RelaType.Title(),
				Items: relationshipViews(g.Items, disclosure),
			})
		}
		for _, g := range domain.GroupRelationships(doc.Relationships.Outgoing) {
			v.Groups = append(v.Groups, groupView{
				Label: g.RelaType.Title(),
				Items: relationshipViews(g.Items, disclosure),
			})
		}
		views = append(views, v)
	}
	return views
}

func relationshipViews(rels []domain.Relationship, disclosure *render.Disclosure) []relationshipView {
	views := make([]relationshipView, 0, len(rels))
	for _, rel := range rels {
		text, toggle := disclosure.Excerpt(rel.DocumentID, rel.Content)
		views = append(views, relationshipView{
			DocumentID: rel.DocumentID,
			Anchor:     anchor(rel.DocumentID),
			Text:       text,
			Toggle:     toggle,
			Expanded:   disclosure.IsExpanded(rel.DocumentID),
		})
	}
	return views
}

func newDocumentPage(doc domain.RelatedDocument) documentPage {
	title := doc.DocumentID
	switch {
	case doc.DocumentTitle != "" && doc.Title != "":
		title = doc.DocumentTitle + " - " + doc.Title
	case doc.Title != "":
		title = doc.Title
	case doc.DocumentTitle != "":
		title = doc.DocumentTitle
	}
	return documentPage{
		ID:        doc.DocumentID,
		Title:     title,
		Status:    doc.Status,
		Effective: doc.EffectiveDate.String(),
		Expired:   doc.ExpiredDate.String(),
		Content:   doc.Content,
	}
}
