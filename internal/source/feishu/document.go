package feishu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"docsync/internal/domain"
)

// BlockTree is the raw block map of one document.
type BlockTree struct {
	DocumentID string
	Title      string
	Blocks     []RawBlock
	Degraded   bool
}

type fetchStrategy struct {
	name  string
	fetch func(ctx context.Context, id string) (*BlockTree, error)
}

func (c *Client) fetchStrategies() []fetchStrategy {
	return []fetchStrategy{
		{name: "blocks", fetch: c.fetchBlocks},
		{name: "basic_info", fetch: c.fetchBasicInfo},
	}
}

// FetchDocumentBlocks tries each fetch strategy in order. Only permission
// and not-found failures move on to the next strategy.
func (c *Client) FetchDocumentBlocks(ctx context.Context, id string) (*BlockTree, error) {
	var lastErr error
	for _, strategy := range c.fetchStrategies() {
		tree, err := strategy.fetch(ctx, id)
		if err == nil {
			return tree, nil
		}
		if !errors.Is(err, domain.ErrPermissionDenied) && !errors.Is(err, domain.ErrResourceNotFound) {
			return nil, fmt.Errorf("fetch document %s via %s: %w", id, strategy.name, err)
		}
		c.logger.Warn("fetch strategy failed, falling back",
			"document_id", id,
			"strategy", strategy.name,
			"error", err,
		)
		lastErr = err
	}
	return nil, fmt.Errorf("fetch document %s: %w", id, lastErr)
}

func (c *Client) fetchBlocks(ctx context.Context, id string) (*BlockTree, error) {
	tree := &BlockTree{DocumentID: id}
	pageToken := ""

	for {
		var page blocksPage
		err := c.request(ctx, http.MethodGet, "/docx/v1/documents/"+id+"/blocks", func(req *resty.Request) {
			req.SetQueryParam("page_size", "500")
			if pageToken != "" {
				req.SetQueryParam("page_token", pageToken)
			}
		}, &page)
		if err != nil {
			return nil, err
		}

		tree.Blocks = append(tree.Blocks, page.Items...)

		if !page.HasMore || page.PageToken == "" {
			break
		}
		pageToken = page.PageToken
	}

	c.logger.Debug("fetched document blocks", "document_id", id, "blocks", len(tree.Blocks))
	return tree, nil
}

func (c *Client) fetchBasicInfo(ctx context.Context, id string) (*BlockTree, error) {
	title, err := c.GetDocumentTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	notice := fmt.Sprintf(
		"The content of this document could not be fetched because of a permission limit. Title: %s. Document id: %s. Grant the app read access to sync the full content.",
		title, id,
	)

	return &BlockTree{
		DocumentID: id,
		Title:      title,
		Degraded:   true,
		Blocks: []RawBlock{{
			ID:       id + "_notice",
			Type:     "text",
			Elements: []TextElement{{TextRun: &TextRun{Content: notice}}},
		}},
	}, nil
}

// GetDocumentTitle reads the document's basic info.
func (c *Client) GetDocumentTitle(ctx context.Context, id string) (string, error) {
	var info documentInfo
	if err := c.request(ctx, http.MethodGet, "/docx/v1/documents/"+id, nil, &info); err != nil {
		return "", err
	}
	return info.Document.Title, nil
}

// ParseDocument fetches a document and flattens its block tree into
// document order.
func (c *Client) ParseDocument(ctx context.Context, id string) (*domain.ParsedDocument, error) {
	tree, err := c.FetchDocumentBlocks(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := ParseTree(tree)
	c.logger.Info("parsed document",
		"document_id", id,
		"title", doc.Title,
		"blocks", len(doc.Blocks),
		"images", len(doc.Images),
		"degraded", doc.Degraded,
	)
	return doc, nil
}

// ParseTree walks tree from its root in child order.
func ParseTree(tree *BlockTree) *domain.ParsedDocument {
	doc := &domain.ParsedDocument{
		ID:       tree.DocumentID,
		Title:    tree.Title,
		Degraded: tree.Degraded,
	}

	byID := make(map[string]*RawBlock, len(tree.Blocks))
	for i := range tree.Blocks {
		byID[tree.Blocks[i].ID] = &tree.Blocks[i]
	}

	visited := make(map[string]bool, len(tree.Blocks))
	var skip func(id string)
	skip = func(id string) {
		b, ok := byID[id]
		if !ok || visited[id] {
			return
		}
		visited[id] = true
		for _, childID := range b.Children {
			skip(childID)
		}
	}

	var walk func(b *RawBlock)
	walk = func(b *RawBlock) {
		if visited[b.ID] {
			return
		}
		visited[b.ID] = true

		if b.Type == "page" && doc.Title == "" {
			doc.Title = strings.TrimSpace(plainText(b.Elements))
		}

		if block := toDomain(b); block != nil {
			doc.Blocks = append(doc.Blocks, block)
			if img, ok := block.(domain.ImageBlock); ok {
				doc.Images = append(doc.Images, img)
			}
		}

		if b.Type == "table" {
			for _, childID := range b.Children {
				skip(childID)
			}
			return
		}
		for _, childID := range b.Children {
			if child, ok := byID[childID]; ok {
				walk(child)
			}
		}
	}

	for i := range tree.Blocks {
		b := &tree.Blocks[i]
		if _, hasParent := byID[b.ParentID]; !hasParent || b.ParentID == "" {
			walk(b)
		}
	}
	// Blocks orphaned by a cyclic or dangling parent link are kept in list order.
	for i := range tree.Blocks {
		walk(&tree.Blocks[i])
	}

	if doc.Title == "" {
		doc.Title = tree.DocumentID
	}
	return doc
}

func toDomain(b *RawBlock) domain.Block {
	switch {
	case b.Type == "page":
		return domain.HeadingBlock{ID: b.ID, Level: 1, Text: styledText(b.Elements)}
	case b.Type == "text":
		return domain.TextBlock{ID: b.ID, Text: styledText(b.Elements)}
	case strings.HasPrefix(b.Type, "heading") && len(b.Type) == len("heading")+1:
		level := int(b.Type[len(b.Type)-1] - '0')
		return domain.HeadingBlock{ID: b.ID, Level: level, Text: styledText(b.Elements)}
	case b.Type == "bullet":
		return domain.ListItemBlock{ID: b.ID, Text: styledText(b.Elements)}
	case b.Type == "ordered":
		return domain.ListItemBlock{ID: b.ID, Text: styledText(b.Elements), Ordered: true}
	case b.Type == "code":
		return domain.CodeBlock{ID: b.ID, Text: plainText(b.Elements), LanguageID: b.CodeLanguage}
	case b.Type == "quote":
		return domain.QuoteBlock{ID: b.ID, Text: styledText(b.Elements)}
	case b.Type == "equation":
		return domain.EquationBlock{ID: b.ID, Expression: plainText(b.Elements)}
	case b.Type == "image":
		if b.Image == nil || b.Image.Token == "" {
			return domain.UnknownBlock{ID: b.ID, Type: "image", Text: "missing file token"}
		}
		return domain.ImageBlock{
			ID:        b.ID,
			FileToken: b.Image.Token,
			Width:     b.Image.Width,
			Height:    b.Image.Height,
			AltText:   fmt.Sprintf("image (%dx%d)", b.Image.Width, b.Image.Height),
		}
	case b.Type == "table":
		table := domain.TableBlock{ID: b.ID}
		if b.Table != nil {
			table.Rows, table.Columns = b.Table.RowSize, b.Table.ColumnSize
		}
		return table
	case b.Type == "table_cell", b.Type == "grid", b.Type == "grid_column", b.Type == "quote_container":
		// Layout containers carry no content of their own; their children are walked.
		return nil
	default:
		return domain.UnknownBlock{ID: b.ID, Type: b.Type, Text: styledText(b.Elements)}
	}
}

func styledText(elements []TextElement) string {
	var sb strings.Builder
	for _, el := range elements {
		switch {
		case el.TextRun != nil:
			sb.WriteString(applyStyle(el.TextRun.Content, el.TextRun.Style))
		case el.Equation != nil:
			sb.WriteString("$" + strings.TrimSpace(el.Equation.Content) + "$")
		case el.MentionDoc != nil:
			sb.WriteString(el.MentionDoc.Title)
		}
	}
	return sb.String()
}

func plainText(elements []TextElement) string {
	var sb strings.Builder
	for _, el := range elements {
		switch {
		case el.TextRun != nil:
			sb.WriteString(el.TextRun.Content)
		case el.Equation != nil:
			sb.WriteString(el.Equation.Content)
		case el.MentionDoc != nil:
			sb.WriteString(el.MentionDoc.Title)
		}
	}
	return sb.String()
}

func applyStyle(content string, style *TextStyle) string {
	if style == nil || strings.TrimSpace(content) == "" {
		return content
	}
	if style.Bold {
		content = "**" + content + "**"
	}
	if style.Italic {
		content = "*" + content + "*"
	}
	if style.Strikethrough {
		content = "~~" + content + "~~"
	}
	if style.Underline {
		content = "__" + content + "__"
	}
	if style.InlineCode {
		content = "`" + content + "`"
	}
	return content
}
