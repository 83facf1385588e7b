package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// DocumentStatus is the legal validity of a retrieved document
type DocumentStatus string

const (
	StatusUnknown          DocumentStatus = ""
	StatusValid            DocumentStatus = "valid"
	StatusPartiallyExpired DocumentStatus = "partially-expired"
	StatusExpired          DocumentStatus = "expired"
)

// ParseDocumentStatus accepts the enum names as well as the labels the
// retrieval backend stores ("Còn hiệu lực", "Hết hiệu lực một phần", ...).
func ParseDocumentStatus(s string) DocumentStatus {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "valid" || v == "còn hiệu lực":
		return StatusValid
	case v == "partially-expired" || v == "partially_expired" || strings.HasPrefix(v, "hết hiệu lực một phần"):
		return StatusPartiallyExpired
	case v == "expired" || strings.HasPrefix(v, "hết hiệu lực"):
		return StatusExpired
	}
	return StatusUnknown
}

// Label returns the Vietnamese badge text shown next to a document
func (s DocumentStatus) Label() string {
	switch s {
	case StatusValid:
		return "Còn hiệu lực"
	case StatusPartiallyExpired:
		return "Hết hiệu lực một phần"
	case StatusExpired:
		return "Hết hiệu lực"
	}
	return ""
}

func (s *DocumentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// null or a non-string value means the backend does not know
		*s = StatusUnknown
		return nil
	}
	*s = ParseDocumentStatus(raw)
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Date is an optional calendar date. The zero value means absent.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		d.Time = time.Time{}
		return nil
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	// "unknown", empty and anything unparseable are treated as absent
	d.Time = time.Time{}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// String formats the date the way Vietnamese legal documents cite it
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

// RelaType is the kind of legal relationship between two documents
type RelaType string

const (
	RelaAmends   RelaType = "AMENDS"
	RelaGuides   RelaType = "GUIDES"
	RelaReplaces RelaType = "REPLACES"
	RelaRepeals  RelaType = "REPEALS"
	RelaSuspends RelaType = "SUSPENDS"
)

// Title returns the capitalised form used as a display label ("Amends")
func (r RelaType) Title() string {
	s := strings.TrimSpace(string(r))
	if s == "" {
		return "Unknown"
	}
	r2 := []rune(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
	return strings.ToUpper(string(r2[0])) + string(r2[1:])
}

// Relationship is a directed link from or to another legal document
type Relationship struct {
	DocumentID string   `json:"document_id"`
	RelaType   RelaType `json:"rela_type"`
	Content    string   `json:"content"`
}

// RelationshipSet holds both directions of a document's relationships
type RelationshipSet struct {
	Incoming []Relationship `json:"incoming"`
	Outgoing []Relationship `json:"outgoing"`
}

// Empty reports whether there is nothing to show in either direction
func (r RelationshipSet) Empty() bool {
	return len(r.Incoming) == 0 && len(r.Outgoing) == 0
}

// RelatedDocument is a retrieved legal document attached to an assistant reply
type RelatedDocument struct {
	DocumentID      string          `json:"document_id"`
	Title           string          `json:"title"`
	DocumentTitle   string          `json:"document_title"`
	SimilarityScore float64         `json:"score"`
	Status          DocumentStatus  `json:"document_status"`
	EffectiveDate   Date            `json:"effective_date"`
	ExpiredDate     Date            `json:"expired_date"`
	Content         string          `json:"content"`
	Relationships   RelationshipSet `json:"relationships"`
}

// RelationshipGroup is a run of relationships sharing a RelaType
type RelationshipGroup struct {
	RelaType RelaType
	Items    []Relationship
}

// GroupRelationships groups rels by RelaType. Groups appear in the order their
// type is first seen and items keep their input order. rels is not modified.
func GroupRelationships(rels []Relationship) []RelationshipGroup {
	if len(rels) == 0 {
		return nil
	}

	index := make(map[RelaType]int)
	var groups []RelationshipGroup
	for _, rel := range rels {
		i, ok := index[rel.RelaType]
		if !ok {
			i = len(groups)
			index[rel.RelaType] = i
			groups = append(groups, RelationshipGroup{RelaType: rel.RelaType})
		}
		groups[i].Items = append(groups[i].Items, rel)
	}
	return groups
}
