package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"docsync/internal/domain"
)

const DestinationID = "notion"

// Config holds Notion client configuration.
type Config struct {
	Token             string
	BaseURL           string
	Version           string
	Timeout           time.Duration
	RequestsPerSecond float64
	SchemaCacheTTL    time.Duration
	MaxRetries        int
	InitialBackoff    time.Duration
}

type Client struct {
	http       *resty.Client
	limiter    *rate.Limiter
	token      string
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
	now        func() time.Time

	schemaMu       sync.RWMutex
	schemas        map[string]schemaEntry
	schemaCacheTTL time.Duration
}

type schemaEntry struct {
	schema   *Schema
	storedAt time.Time
}

func New(cfg Config, logger *slog.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Notion-Version", cfg.Version).
			SetHeader("Content-Type", "application/json"),
		limiter:        rate.NewLimiter(rate.Limit(rps), 1),
		token:          cfg.Token,
		maxRetries:     cfg.MaxRetries,
		backoff:        cfg.InitialBackoff,
		logger:         logger.With("destination", DestinationID),
		now:            time.Now,
		schemas:        make(map[string]schemaEntry),
		schemaCacheTTL: cfg.SchemaCacheTTL,
	}
}

// Page is a destination page reduced to what the sync needs.
type Page struct {
	ID            string
	URL           string
	Title         string
	TitleProperty string
}

type pageResponse struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Properties map[string]struct {
		Type  string `json:"type"`
		Title []struct {
			PlainText string `json:"plain_text"`
		} `json:"title"`
	} `json:"properties"`
}

func (p pageResponse) toPage() *Page {
	page := &Page{ID: p.ID, URL: p.URL, TitleProperty: "title"}
	for name, prop := range p.Properties {
		if prop.Type != string(PropertyTitle) {
			continue
		}
		page.TitleProperty = name
		for _, t := range prop.Title {
			page.Title += t.PlainText
		}
	}
	return page
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteReport summarizes a best-effort multi-call content write.
type WriteReport struct {
	BlocksWritten int
	ChunksFailed  int
	Deleted       int
}

func (c *Client) request(ctx context.Context, method, path string, callback func(req *resty.Request), out any) error {
	if c.token == "" {
		return fmt.Errorf("%w: notion token", domain.ErrConfigMissing)
	}

	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("wait for rate limiter: %w", err)
			}

			req := c.http.R().SetContext(ctx).SetAuthToken(c.token)
			if callback != nil {
				callback(req)
			}

			resp, err := req.Execute(method, path)
			if err != nil {
				return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, method, path, err)
			}
			if err := statusError(resp, method, path); err != nil {
				return err
			}
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("%w: decode %s: %w", domain.ErrUpstream, path, err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(c.backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, domain.ErrRateLimitExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("rate limited, backing off", "path", path, "attempt", n+1)
		}),
	)
}

func statusError(resp *resty.Response, method, path string) error {
	code := resp.StatusCode()
	if code < http.StatusBadRequest {
		return nil
	}

	var apiErr apiError
	_ = json.Unmarshal(resp.Body(), &apiErr)

	var kind error
	switch code {
	case http.StatusUnauthorized:
		kind = domain.ErrAuthenticationFailed
	case http.StatusForbidden:
		kind = domain.ErrPermissionDenied
	case http.StatusNotFound:
		kind = domain.ErrResourceNotFound
	case http.StatusTooManyRequests:
		kind = domain.ErrRateLimitExceeded
	default:
		kind = domain.ErrUpstream
	}
	return fmt.Errorf("%w: %s %s: status %d %s: %s", kind, method, path, code, apiErr.Code, apiErr.Message)
}

// DatabaseSchema introspects a database's properties. Results are cached per
// database for the configured TTL.
func (c *Client) DatabaseSchema(ctx context.Context, databaseID string) (*Schema, error) {
	c.schemaMu.RLock()
	entry, ok := c.schemas[databaseID]
	c.schemaMu.RUnlock()
	if ok && c.now().Sub(entry.storedAt) < c.schemaCacheTTL {
		return entry.schema, nil
	}

	var resp struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	if err := c.request(ctx, http.MethodGet, "/databases/"+databaseID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get database schema: %w", err)
	}

	schema := &Schema{Properties: make(map[string]PropertyType, len(resp.Properties))}
	for name, prop := range resp.Properties {
		schema.Properties[name] = PropertyType(prop.Type)
	}

	c.schemaMu.Lock()
	c.schemas[databaseID] = schemaEntry{schema: schema, storedAt: c.now()}
	c.schemaMu.Unlock()

	return schema, nil
}

// PageProperties builds schema-aware properties, falling back to a title-only
// set when the schema cannot be read.
func (c *Client) PageProperties(ctx context.Context, databaseID string, attrs PageAttributes) Properties {
	schema, err := c.DatabaseSchema(ctx, databaseID)
	if err != nil {
		c.logger.Warn("schema introspection failed, using title only",
			"database_id", databaseID,
			"error", err,
		)
		return BuildProperties(nil, attrs)
	}
	return BuildProperties(schema, attrs)
}

// FindPageByTitle returns the first page whose title equals title, or nil.
func (c *Client) FindPageByTitle(ctx context.Context, databaseID, title string) (*Page, error) {
	titleProp := "title"
	if schema, err := c.DatabaseSchema(ctx, databaseID); err == nil {
		titleProp = schema.TitleProperty()
	}

	var resp struct {
		Results []pageResponse `json:"results"`
	}
	err := c.request(ctx, http.MethodPost, "/databases/"+databaseID+"/query", func(req *resty.Request) {
		req.SetBody(map[string]any{
			"filter": map[string]any{
				"property": titleProp,
				"title":    map[string]string{"equals": title},
			},
			"page_size": 1,
		})
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("query database by title: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}
	return resp.Results[0].toPage(), nil
}

// CreateDatabasePage creates a page with at most MaxBlocksPerRequest initial blocks.
func (c *Client) CreateDatabasePage(ctx context.Context, databaseID string, props Properties, blocks []Block) (*Page, error) {
	if len(blocks) > MaxBlocksPerRequest {
		return nil, fmt.Errorf("%w: %d initial blocks exceeds %d", domain.ErrValidation, len(blocks), MaxBlocksPerRequest)
	}
	if blocks == nil {
		blocks = []Block{}
	}

	var resp pageResponse
	err := c.request(ctx, http.MethodPost, "/pages", func(req *resty.Request) {
		req.SetBody(map[string]any{
			"parent":     map[string]string{"database_id": databaseID},
			"properties": props,
			"children":   blocks,
		})
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	page := resp.toPage()
	c.logger.Info("created page", "page_id", page.ID, "blocks", len(blocks))
	return page, nil
}

// AppendBlocks appends at most MaxBlocksPerRequest blocks to a page.
func (c *Client) AppendBlocks(ctx context.Context, pageID string, blocks []Block) error {
	if len(blocks) == 0 {
		return nil
	}
	if len(blocks) > MaxBlocksPerRequest {
		return fmt.Errorf("%w: %d blocks exceeds %d", domain.ErrValidation, len(blocks), MaxBlocksPerRequest)
	}

	err := c.request(ctx, http.MethodPatch, "/blocks/"+pageID+"/children", func(req *resty.Request) {
		req.SetBody(map[string]any{"children": blocks})
	}, nil)
	if err != nil {
		return fmt.Errorf("append blocks: %w", err)
	}
	return nil
}

// ListChildren lists every direct child block of a page.
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]ExistingBlock, error) {
	var all []ExistingBlock
	cursor := ""

	for {
		var resp struct {
			Results    []ExistingBlock `json:"results"`
			HasMore    bool            `json:"has_more"`
			NextCursor string          `json:"next_cursor"`
		}
		err := c.request(ctx, http.MethodGet, "/blocks/"+blockID+"/children", func(req *resty.Request) {
			req.SetQueryParam("page_size", "100")
			if cursor != "" {
				req.SetQueryParam("start_cursor", cursor)
			}
		}, &resp)
		if err != nil {
			return nil, fmt.Errorf("list children: %w", err)
		}

		all = append(all, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	if err := c.request(ctx, http.MethodDelete, "/blocks/"+blockID, nil, nil); err != nil {
		return fmt.Errorf("delete block %s: %w", blockID, err)
	}
	return nil
}

func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var resp pageResponse
	if err := c.request(ctx, http.MethodGet, "/pages/"+pageID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return resp.toPage(), nil
}

func (c *Client) UpdatePageProperties(ctx context.Context, pageID string, props Properties) error {
	err := c.request(ctx, http.MethodPatch, "/pages/"+pageID, func(req *resty.Request) {
		req.SetBody(map[string]any{"properties": props})
	}, nil)
	if err != nil {
		return fmt.Errorf("update page properties: %w", err)
	}
	return nil
}

// UpdatePageFromSource replaces a page's title and content. Child pages and
// databases are preserved. Content is appended in capped chunks; a failed
// chunk is logged and skipped.
func (c *Client) UpdatePageFromSource(ctx context.Context, pageID, title string, blocks []Block) (*WriteReport, error) {
	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdatePageProperties(ctx, pageID, Properties{page.TitleProperty: TitleProperty{Text: title}}); err != nil {
		return nil, err
	}

	children, err := c.ListChildren(ctx, pageID)
	if err != nil {
		return nil, err
	}

	report := &WriteReport{}
	for _, child := range children {
		if child.Structural() {
			continue
		}
		if err := c.DeleteBlock(ctx, child.ID); err != nil {
			return nil, err
		}
		report.Deleted++
	}

	for i, chunk := range Chunk(blocks, MaxBlocksPerRequest) {
		if err := c.AppendBlocks(ctx, pageID, chunk); err != nil {
			report.ChunksFailed++
			c.logger.Warn("append chunk failed, skipping",
				"page_id", pageID,
				"chunk", i,
				"blocks", len(chunk),
				"error", err,
			)
			continue
		}
		report.BlocksWritten += len(chunk)
	}

	c.logger.Info("replaced page content",
		"page_id", pageID,
		"deleted", report.Deleted,
		"written", report.BlocksWritten,
		"chunks_failed", report.ChunksFailed,
	)
	return report, nil
}

// Chunk splits blocks into batches of at most size.
func Chunk(blocks []Block, size int) [][]Block {
	if size <= 0 {
		size = MaxBlocksPerRequest
	}
	chunks := make([][]Block, 0, (len(blocks)+size-1)/size)
	for start := 0; start < len(blocks); start += size {
		end := min(start+size, len(blocks))
		chunks = append(chunks, blocks[start:end])
	}
	return chunks
}
