package domain

import "time"

// Block is one parsed source block. The concrete types below are the only
// implementations; consumers switch on them and keep a default arm.
type Block interface {
	BlockID() string
	isBlock()
}

type TextBlock struct {
	ID   string
	Text string
}

type HeadingBlock struct {
	ID    string
	Level int
	Text  string
}

type CodeBlock struct {
	ID         string
	Text       string
	LanguageID int
	// Language is set when the source tagged the block with a name rather than an id.
	Language string
}

type ListItemBlock struct {
	ID      string
	Text    string
	Ordered bool
}

type QuoteBlock struct {
	ID   string
	Text string
}

type EquationBlock struct {
	ID         string
	Expression string
}

type ImageBlock struct {
	ID        string
	FileToken string
	Width     int
	Height    int
	AltText   string
}

type TableBlock struct {
	ID      string
	Rows    int
	Columns int
}

type UnknownBlock struct {
	ID   string
	Type string
	Text string
}

func (b TextBlock) BlockID() string     { return b.ID }
func (b HeadingBlock) BlockID() string  { return b.ID }
func (b CodeBlock) BlockID() string     { return b.ID }
func (b ListItemBlock) BlockID() string { return b.ID }
func (b QuoteBlock) BlockID() string    { return b.ID }
func (b EquationBlock) BlockID() string { return b.ID }
func (b ImageBlock) BlockID() string    { return b.ID }
func (b TableBlock) BlockID() string    { return b.ID }
func (b UnknownBlock) BlockID() string  { return b.ID }

func (TextBlock) isBlock()     {}
func (HeadingBlock) isBlock()  {}
func (CodeBlock) isBlock()     {}
func (ListItemBlock) isBlock() {}
func (QuoteBlock) isBlock()    {}
func (EquationBlock) isBlock() {}
func (ImageBlock) isBlock()    {}
func (TableBlock) isBlock()    {}
func (UnknownBlock) isBlock()  {}

// ParsedDocument is a source document flattened into document order.
type ParsedDocument struct {
	ID     string
	Title  string
	Blocks []Block
	Images []ImageBlock
	// Degraded is set when only basic metadata could be read.
	Degraded bool
}

// DocRef is a document found while walking a source folder.
type DocRef struct {
	Token      string    `json:"token"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	URL        string    `json:"url,omitempty"`
	FolderPath string    `json:"folder_path,omitempty"`
	OwnerID    string    `json:"owner_id,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

// ContentType maps the source file type onto the task content type.
func (d DocRef) ContentType() ContentType {
	if d.Type == "bitable" {
		return ContentDatabase
	}
	return ContentDocument
}
