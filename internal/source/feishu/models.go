package feishu

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type tokenResponse struct {
	Code           int    `json:"code"`
	Msg            string `json:"msg"`
	AppAccessToken string `json:"app_access_token"`
	Expire         int    `json:"expire"`
}

type blocksPage struct {
	Items     []RawBlock `json:"items"`
	HasMore   bool       `json:"has_more"`
	PageToken string     `json:"page_token"`
}

type documentInfo struct {
	Document struct {
		DocumentID string `json:"document_id"`
		RevisionID int    `json:"revision_id"`
		Title      string `json:"title"`
	} `json:"document"`
}

type filesPage struct {
	Files         []driveFile `json:"files"`
	HasMore       bool        `json:"has_more"`
	NextPageToken string      `json:"next_page_token"`
	PageToken     string      `json:"page_token"`
}

func (p filesPage) nextToken() string {
	if p.NextPageToken != "" {
		return p.NextPageToken
	}
	return p.PageToken
}

type driveFile struct {
	Token        string `json:"token"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	URL          string `json:"url"`
	ParentToken  string `json:"parent_token"`
	OwnerID      string `json:"owner_id"`
	CreatedTime  string `json:"created_time"`
	ModifiedTime string `json:"modified_time"`
}

// TextElement is one inline run of a text-bearing block.
type TextElement struct {
	TextRun    *TextRun    `json:"text_run,omitempty"`
	MentionDoc *MentionDoc `json:"mention_doc,omitempty"`
	Equation   *TextRun    `json:"equation,omitempty"`
}

type TextRun struct {
	Content string     `json:"content"`
	Style   *TextStyle `json:"text_element_style,omitempty"`
}

type TextStyle struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Underline     bool `json:"underline"`
	InlineCode    bool `json:"inline_code"`
}

type MentionDoc struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ImageBody struct {
	Token  string `json:"token"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type TableProperty struct {
	RowSize    int `json:"row_size"`
	ColumnSize int `json:"column_size"`
}

// RawBlock is one record of the document block map, with its type-specific
// body already decoded.
type RawBlock struct {
	ID           string
	ParentID     string
	Children     []string
	Type         string
	Elements     []TextElement
	CodeLanguage int
	Image        *ImageBody
	Table        *TableProperty
}

var blockTypeNames = map[int]string{
	1: "page", 2: "text",
	3: "heading1", 4: "heading2", 5: "heading3", 6: "heading4", 7: "heading5",
	8: "heading6", 9: "heading7", 10: "heading8", 11: "heading9",
	12: "bullet", 13: "ordered", 14: "code", 15: "quote", 16: "equation",
	17: "todo", 18: "bitable", 19: "callout", 20: "chat_card", 21: "diagram",
	22: "divider", 23: "file", 24: "grid", 25: "grid_column", 26: "iframe",
	27: "image", 28: "isv", 29: "mindnote", 30: "sheet", 31: "table",
	32: "table_cell", 33: "view", 34: "quote_container",
}

func blockTypeName(raw json.RawMessage) string {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if name, ok := blockTypeNames[n]; ok {
			return name
		}
		return "block_" + strconv.Itoa(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return strings.ToLower(s)
	}
	return "unknown"
}

func (b *RawBlock) UnmarshalJSON(data []byte) error {
	var head struct {
		BlockID   string          `json:"block_id"`
		ParentID  string          `json:"parent_id"`
		Children  []string        `json:"children"`
		BlockType json.RawMessage `json:"block_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode block fields: %w", err)
	}

	*b = RawBlock{
		ID:       head.BlockID,
		ParentID: head.ParentID,
		Children: head.Children,
		Type:     blockTypeName(head.BlockType),
	}

	body, ok := fields[b.Type]
	if !ok {
		return nil
	}

	switch b.Type {
	case "image":
		var img ImageBody
		if err := json.Unmarshal(body, &img); err != nil {
			return fmt.Errorf("decode image block %s: %w", b.ID, err)
		}
		b.Image = &img
	case "table":
		var table struct {
			Property TableProperty `json:"property"`
		}
		if err := json.Unmarshal(body, &table); err != nil {
			return fmt.Errorf("decode table block %s: %w", b.ID, err)
		}
		b.Table = &table.Property
	default:
		var text struct {
			Elements []TextElement `json:"elements"`
			Style    struct {
				Language int `json:"language"`
			} `json:"style"`
		}
		// Bodies without elements (divider, grid) are left empty.
		if err := json.Unmarshal(body, &text); err == nil {
			b.Elements = text.Elements
			b.CodeLanguage = text.Style.Language
		}
	}

	return nil
}
