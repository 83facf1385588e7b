package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentStatus(t *testing.T) {
	tests := []struct {
		in   string
		want DocumentStatus
	}{
		{"Còn hiệu lực", StatusValid},
		{"valid", StatusValid},
		{"Hết hiệu lực một phần", StatusPartiallyExpired},
		{"partially_expired", StatusPartiallyExpired},
		{"Hết hiệu lực toàn bộ", StatusExpired},
		{"expired", StatusExpired},
		{"unknown", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseDocumentStatus(tc.in))
		})
	}
}

func TestRelatedDocument_DecodeBackendPayload(t *testing.T) {
	payload := `{
		"document_id": "39/2016/TT-NHNN",
		"title": "Điều 7. Điều kiện vay vốn",
		"document_title": "Thông tư 39/2016/TT-NHNN",
		"score": 0.8731,
		"document_status": "Còn hiệu lực",
		"effective_date": "15/03/2017",
		"expired_date": "unknown",
		"content": "Tổ chức tín dụng xem xét, quyết định cho vay...",
		"relationships": {
			"incoming": [{"rela_type": "AMENDS", "document_id": "06/2023/TT-NHNN", "content": "Sửa đổi khoản 8"}],
			"outgoing": []
		}
	}`

	var doc RelatedDocument
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))

	assert.Equal(t, "39/2016/TT-NHNN", doc.DocumentID)
	assert.Equal(t, StatusValid, doc.Status)
	assert.InDelta(t, 0.8731, doc.SimilarityScore, 1e-9)
	assert.Equal(t, "15/03/2017", doc.EffectiveDate.String())
	assert.True(t, doc.ExpiredDate.IsZero())
	require.Len(t, doc.Relationships.Incoming, 1)
	assert.Equal(t, RelaAmends, doc.Relationships.Incoming[0].RelaType)
	assert.False(t, doc.Relationships.Empty())
}

func TestGroupRelationships_StableFirstSeenOrder(t *testing.T) {
	rels := []Relationship{
		{DocumentID: "a", RelaType: RelaGuides},
		{DocumentID: "b", RelaType: RelaAmends},
		{DocumentID: "c", RelaType: RelaGuides},
		{DocumentID: "d", RelaType: RelaRepeals},
		{DocumentID: "e", RelaType: RelaAmends},
	}

	groups := GroupRelationships(rels)
	require.Len(t, groups, 3)

	assert.Equal(t, RelaGuides, groups[0].RelaType)
	assert.Equal(t, RelaAmends, groups[1].RelaType)
	assert.Equal(t, RelaRepeals, groups[2].RelaType)

	ids := func(g RelationshipGroup) []string {
		var out []string
		for _, r := range g.Items {
			out = append(out, r.DocumentID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "c"}, ids(groups[0]))
	assert.Equal(t, []string{"b", "e"}, ids(groups[1]))
	assert.Equal(t, []string{"d"}, ids(groups[2]))

	// input untouched
	assert.Equal(t, "b", rels[1].DocumentID)
	assert.Nil(t, GroupRelationships(nil))
}

func TestRelaType_Title(t *testing.T) {
	assert.Equal(t, "Amends", RelaAmends.Title())
	assert.Equal(t, "Suspends", RelaSuspends.Title())
	assert.Equal(t, "Unknown", RelaType("").Title())
}
