package notion

import (
	"encoding/json"
	"fmt"
)

// MaxBlocksPerRequest is the API cap on children per create or append call.
const MaxBlocksPerRequest = 100

const (
	maxRichTextLength = 2000
	maxRichTextRuns   = 100
)

// Block is a destination block. Each implementation serializes itself into
// the API's {"type": X, X: {...}} shape.
type Block interface {
	Type() string
	json.Marshaler
}

type RichText struct {
	Content string
}

func (r RichText) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": "text",
		"text": map[string]string{"content": r.Content},
	})
}

// PlainText concatenates the content of all runs.
func PlainText(runs []RichText) string {
	var out string
	for _, r := range runs {
		out += r.Content
	}
	return out
}

// Text splits s into runs the API accepts. Content beyond the run cap is cut
// and marked as truncated.
func Text(s string) []RichText {
	if s == "" {
		return []RichText{}
	}
	runes := []rune(s)
	runs := make([]RichText, 0, len(runes)/maxRichTextLength+1)
	for start := 0; start < len(runes); start += maxRichTextLength {
		if len(runs) == maxRichTextRuns-1 && len(runes)-start > maxRichTextLength {
			tail := runes[start : start+maxRichTextLength-len(truncationMarker)]
			runs = append(runs, RichText{Content: string(tail) + truncationMarker})
			break
		}
		end := min(start+maxRichTextLength, len(runes))
		runs = append(runs, RichText{Content: string(runes[start:end])})
	}
	return runs
}

const truncationMarker = " [truncated]"

type Paragraph struct {
	RichText []RichText
}

type Heading struct {
	Level    int
	RichText []RichText
}

type Code struct {
	Language string
	RichText []RichText
}

type BulletedListItem struct {
	RichText []RichText
}

type NumberedListItem struct {
	RichText []RichText
}

type Quote struct {
	RichText []RichText
}

type Equation struct {
	Expression string
}

type Image struct {
	URL     string
	Caption []RichText
}

func (Paragraph) Type() string        { return "paragraph" }
func (Code) Type() string             { return "code" }
func (BulletedListItem) Type() string { return "bulleted_list_item" }
func (NumberedListItem) Type() string { return "numbered_list_item" }
func (Quote) Type() string            { return "quote" }
func (Equation) Type() string         { return "equation" }
func (Image) Type() string            { return "image" }

func (h Heading) Type() string {
	return fmt.Sprintf("heading_%d", min(max(h.Level, 1), 3))
}

func (b Paragraph) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.Type(), map[string]any{"rich_text": b.RichText})
}

func (b Heading) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.Type(), map[string]any{"rich_text": b.RichText})
}

func (b Code) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.Type(), map[string]any{"rich_text": b.RichText, "language": b.Language})
}

func (b BulletedListItem) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.Type(), map[string]any{"rich_text": b.RichText})
}

func (b NumberedListItem) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.Type(), map[string]any{"rich_text": b.RichText})
}

func (b Quote) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.Type(), map[string]any{"rich_text": b.RichText})
}

func (b Equation) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.Type(), map[string]any{"expression": b.Expression})
}

func (b Image) MarshalJSON() ([]byte, error) {
	payload := map[string]any{
		"type":     "external",
		"external": map[string]string{"url": b.URL},
	}
	if len(b.Caption) > 0 {
		payload["caption"] = b.Caption
	}
	return marshalBlock(b.Type(), payload)
}

func marshalBlock(typ string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"object": "block",
		"type":   typ,
		typ:      payload,
	})
}

// ExistingBlock is a child block as listed back from the API.
type ExistingBlock struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`
}

// Structural reports whether the block must survive a content replace.
func (b ExistingBlock) Structural() bool {
	return b.Type == "child_page" || b.Type == "child_database"
}
