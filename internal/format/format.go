// Package format turns a raw assistant answer and its related legal documents
// into a single markdown document ready for rendering.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ura-xlaw/internal/domain"
)

// ExcerptLength is how much of a relationship's content is shown inline
const ExcerptLength = 150

const (
	sectionHeading      = "### 📚 Tài liệu liên quan"
	similarityLabel     = "Điểm tương đồng"
	statusLabel         = "Trạng thái"
	effectiveLabel      = "Hiệu lực từ"
	expiredLabel        = "Hết hiệu lực từ"
	relationshipsLabel  = "Mối quan hệ pháp lý"
	incomingLabel       = "Bị sửa đổi, bổ sung bởi"
	processingTimeLabel = "Thời gian xử lý"
	missingContent      = "N/A"
)

// Format appends a related-documents section to rawAnswer. With no documents
// rawAnswer is returned unchanged. Format never modifies its arguments and the
// output depends only on them.
func Format(rawAnswer string, docs []domain.RelatedDocument) string {
	if len(docs) == 0 {
		return rawAnswer
	}

	var sb strings.Builder
	sb.WriteString(rawAnswer)
	sb.WriteString("\n\n---\n\n")
	sb.WriteString(sectionHeading)
	sb.WriteString("\n\n")

	for i, doc := range docs {
		writeDocument(&sb, i+1, doc)
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// WithProcessingTime appends the backend processing time, in seconds, as a
// trailing italic line.
func WithProcessingTime(text string, seconds float64) string {
	return fmt.Sprintf("%s\n\n*%s: %.2fs*", text, processingTimeLabel, seconds)
}

// Excerpt shortens s to at most n runes, marking the cut with "...".
// Empty content is shown as N/A.
func Excerpt(s string, n int) string {
	if s == "" {
		return missingContent
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func writeDocument(sb *strings.Builder, n int, doc domain.RelatedDocument) {
	fmt.Fprintf(sb, "**%d. %s** (%s)\n", n, documentHeading(doc), doc.DocumentID)
	fmt.Fprintf(sb, "*%s: %.1f%%*\n", similarityLabel, doc.SimilarityScore*100)

	if meta := statusLine(doc); meta != "" {
		sb.WriteString(meta)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if doc.Relationships.Empty() {
		return
	}

	fmt.Fprintf(sb, "**%s:**\n", relationshipsLabel)

	if len(doc.Relationships.Incoming) > 0 {
		fmt.Fprintf(sb, "- **%s:**\n", incomingLabel)
		for _, group := range domain.GroupRelationships(doc.Relationships.Incoming) {
			fmt.Fprintf(sb, "  - *%s:*\n", group.RelaType.Title())
			writeItems(sb, "    ", group.Items)
		}
	}

	for _, group := range domain.GroupRelationships(doc.Relationships.Outgoing) {
		fmt.Fprintf(sb, "- **%s:**\n", group.RelaType.Title())
		writeItems(sb, "  ", group.Items)
	}

	sb.WriteString("\n")
}

func writeItems(sb *strings.Builder, indent string, items []domain.Relationship) {
	for _, rel := range items {
		fmt.Fprintf(sb, "%s- [%s](%s): %s\n", indent, rel.DocumentID, rel.DocumentID, Excerpt(rel.Content, ExcerptLength))
	}
}

// documentHeading combines the document title and the article title, skipping
// whichever one the backend left empty.
func documentHeading(doc domain.RelatedDocument) string {
	docTitle := strings.TrimSpace(doc.DocumentTitle)
	title := strings.TrimSpace(doc.Title)
	switch {
	case docTitle == "" || docTitle == "unknown":
		return title
	case title == "" || title == "unknown" || title == docTitle:
		return docTitle
	}
	return docTitle + " - " + title
}

func statusLine(doc domain.RelatedDocument) string {
	var parts []string
	if label := doc.Status.Label(); label != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", statusLabel, label))
	}
	if !doc.EffectiveDate.IsZero() {
		parts = append(parts, fmt.Sprintf("%s: %s", effectiveLabel, doc.EffectiveDate))
	}
	if !doc.ExpiredDate.IsZero() {
		parts = append(parts, fmt.Sprintf("%s: %s", expiredLabel, doc.ExpiredDate))
	}
	if len(parts) == 0 {
		return ""
	}
	return "*" + strings.Join(parts, " · ") + "*"
}
