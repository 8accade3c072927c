package notion

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProperties_NilSchemaIsTitleOnly(t *testing.T) {
	props := BuildProperties(nil, PageAttributes{Title: "Doc", Type: "Post", Category: "Tech"})
	assert.Equal(t, Properties{"title": TitleProperty{Text: "Doc"}}, props)
}

func TestBuildProperties_SkipsEmptyValues(t *testing.T) {
	schema := &Schema{Properties: map[string]PropertyType{
		"Name":     PropertyTitle,
		"category": PropertySelect,
	}}

	props := BuildProperties(schema, PageAttributes{Title: "Doc"})
	assert.Equal(t, Properties{"Name": TitleProperty{Text: "Doc"}}, props)
}

func TestPropertiesJSON(t *testing.T) {
	props := Properties{
		"Name": TitleProperty{Text: "Doc"},
		"date": DateProperty{Start: time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)},
	}

	data, err := json.Marshal(props)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Name": {"title": [{"type": "text", "text": {"content": "Doc"}}]},
		"date": {"date": {"start": "2026-10-16"}}
	}`, string(data))
}

func TestText_TruncatesPastRunCap(t *testing.T) {
	huge := strings.Repeat("y", maxRichTextLength*maxRichTextRuns+10)

	runs := Text(huge)

	require.Len(t, runs, maxRichTextRuns)
	last := runs[len(runs)-1].Content
	assert.True(t, strings.HasSuffix(last, truncationMarker))
	assert.Len(t, last, maxRichTextLength)
}

func TestRichTextJSON(t *testing.T) {
	data, err := json.Marshal(RichText{Content: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text","text":{"content":"x"}}`, string(data))
}
