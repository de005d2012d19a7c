package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarfeed/internal/model"
)

func TestJournalItem(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 900,
		"title": "Reproducibility of fMRI pipelines",
		"abstract": "We re-ran forty published pipelines.",
		"published_date": "2025-04-04T00:00:00Z",
		"authors": [{"full_name": "Sam Ortiz"}, {"full_name": "Lee Wu", "is_verified": true}],
		"journal": {"id": 1, "name": "Open Methods", "slug": "open-methods"},
		"score": 22,
		"discussion_count": 5
	}`)

	e, err := JournalItem(raw)
	require.NoError(t, err)

	assert.Equal(t, "paper-900", e.ID)
	assert.Equal(t, SourceJournal, e.Source)
	assert.Equal(t, model.ActionPublish, e.Action)
	assert.Equal(t, 22, e.Metrics.Votes)
	assert.Equal(t, 5, e.Metrics.Comments)
	assert.Equal(t, 2025, e.Timestamp.Year())

	p, ok := e.Content.(model.Paper)
	require.True(t, ok)
	assert.Equal(t, "Reproducibility of fMRI pipelines", p.Title)
	require.NotNil(t, p.Hub)
	assert.Equal(t, "Open Methods", p.Hub.Name)
	require.Len(t, p.Authors, 2)
	assert.True(t, p.Authors[1].Verified)
}

func TestJournalItemFallsBackToCreatedDate(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 901,
		"title": "Preprint without publish date",
		"created_date": "2025-02-02T00:00:00Z"
	}`)

	e, err := JournalItem(raw)
	require.NoError(t, err)
	assert.Equal(t, 2025, e.Timestamp.Year())
}
