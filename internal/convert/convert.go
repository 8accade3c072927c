// Package convert maps parsed source blocks onto destination blocks. It has
// no side effects; image URLs are supplied by the caller.
package convert

import (
	"fmt"
	"regexp"
	"strings"

	"docsync/internal/destination/notion"
	"docsync/internal/domain"
)

const (
	emptyCodePlaceholder = "// empty code block"
	tablePlaceholder     = "[table content - manual conversion needed]"
)

// Document converts every block of doc in order and drops a leading heading
// that repeats the document title.
func Document(doc *domain.ParsedDocument, images map[string]domain.ResolvedImage) []notion.Block {
	blocks := make([]notion.Block, 0, len(doc.Blocks))
	titleChecked := false

	for _, src := range doc.Blocks {
		if h, ok := src.(domain.HeadingBlock); ok && h.Level == 1 && !titleChecked {
			titleChecked = true
			if SameTitle(h.Text, doc.Title) {
				continue
			}
		}

		if out, ok := Block(src, images); ok {
			blocks = append(blocks, out)
		}
	}

	return blocks
}

// Block converts a single source block. The bool is false when the block
// produces no output: empty text, or an image that has not been resolved.
func Block(src domain.Block, images map[string]domain.ResolvedImage) (notion.Block, bool) {
	switch b := src.(type) {
	case domain.TextBlock:
		if isBlank(b.Text) {
			return nil, false
		}
		return notion.Paragraph{RichText: notion.Text(b.Text)}, true

	case domain.HeadingBlock:
		if isBlank(b.Text) {
			return nil, false
		}
		return notion.Heading{Level: clampLevel(b.Level), RichText: notion.Text(b.Text)}, true

	case domain.CodeBlock:
		body := b.Text
		if isBlank(body) {
			body = emptyCodePlaceholder
		}
		return notion.Code{Language: codeLanguage(b), RichText: notion.Text(body)}, true

	case domain.ListItemBlock:
		if isBlank(b.Text) {
			return nil, false
		}
		if b.Ordered {
			return notion.NumberedListItem{RichText: notion.Text(b.Text)}, true
		}
		return notion.BulletedListItem{RichText: notion.Text(b.Text)}, true

	case domain.QuoteBlock:
		if isBlank(b.Text) {
			return nil, false
		}
		return notion.Quote{RichText: notion.Text(b.Text)}, true

	case domain.EquationBlock:
		if isBlank(b.Expression) {
			return nil, false
		}
		return notion.Equation{Expression: strings.TrimSpace(b.Expression)}, true

	case domain.ImageBlock:
		resolved, ok := images[b.FileToken]
		if !ok || resolved.URL == "" {
			return nil, false
		}
		caption := resolved.Caption
		if caption == "" {
			caption = b.AltText
		}
		return notion.Image{URL: resolved.URL, Caption: notion.Text(caption)}, true

	case domain.TableBlock:
		return notion.Paragraph{RichText: notion.Text(tableText(b))}, true

	case domain.UnknownBlock:
		return unknownParagraph(b.Type, b.Text), true

	default:
		return unknownParagraph(fmt.Sprintf("%T", src), ""), true
	}
}

var (
	inlineMarkers = regexp.MustCompile("\\*\\*|~~|__|[*`]")
	whitespace    = regexp.MustCompile(`\s+`)
)

// SameTitle reports whether heading repeats title once inline style markers,
// case and whitespace runs are normalized away.
func SameTitle(heading, title string) bool {
	h, t := normalizeTitle(heading), normalizeTitle(title)
	return h != "" && h == t
}

func normalizeTitle(s string) string {
	s = inlineMarkers.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.ToLower(s)
}

func tableText(b domain.TableBlock) string {
	if b.Rows <= 0 || b.Columns <= 0 {
		return tablePlaceholder
	}
	return fmt.Sprintf("[table content %dx%d - manual conversion needed]", b.Rows, b.Columns)
}

func codeLanguage(b domain.CodeBlock) string {
	name := b.Language
	if name == "" {
		name = SourceLanguageName(b.LanguageID)
	}
	return DestinationLanguage(name)
}

func clampLevel(level int) int {
	return min(max(level, 1), 3)
}

func unknownParagraph(typ, text string) notion.Block {
	content := strings.TrimSpace(fmt.Sprintf("[%s] %s", typ, text))
	return notion.Paragraph{RichText: notion.Text(content)}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
