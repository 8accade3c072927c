package feishu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"docsync/internal/domain"
)

type folderCacheKey struct {
	folderID string
	maxDepth int
}

type folderCacheEntry struct {
	docs     []domain.DocRef
	storedAt time.Time
}

var syncableTypes = map[string]bool{
	"docx":    true,
	"doc":     true,
	"sheet":   true,
	"bitable": true,
}

// ListFolder walks a folder tree and returns every syncable document in it.
// The walk stops at maxDepth and never revisits a folder. When the walk
// fails, a stale cache entry is returned if one exists.
func (c *Client) ListFolder(ctx context.Context, folderID string, maxDepth int, useCache bool) ([]domain.DocRef, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	key := folderCacheKey{folderID: folderID, maxDepth: maxDepth}

	if useCache {
		if docs, fresh, ok := c.cachedFolder(key); ok && fresh {
			c.logger.Debug("folder listing served from cache", "folder_id", folderID, "documents", len(docs))
			return docs, nil
		}
	}

	visited := make(map[string]bool)
	docs, err := c.walkFolder(ctx, folderID, "", 0, maxDepth, visited)
	if err != nil {
		if stale, _, ok := c.cachedFolder(key); ok {
			c.logger.Warn("folder listing failed, serving stale cache",
				"folder_id", folderID,
				"error", err,
			)
			return stale, nil
		}
		return nil, fmt.Errorf("list folder %s: %w", folderID, err)
	}

	c.storeFolder(key, docs)

	c.logger.Info("listed folder",
		"folder_id", folderID,
		"max_depth", maxDepth,
		"folders", len(visited),
		"documents", len(docs),
	)
	return docs, nil
}

func (c *Client) walkFolder(ctx context.Context, folderID, path string, depth, maxDepth int, visited map[string]bool) ([]domain.DocRef, error) {
	if visited[folderID] {
		c.logger.Warn("folder already visited, skipping", "folder_id", folderID)
		return nil, nil
	}
	if depth >= maxDepth {
		c.logger.Warn("folder depth limit reached", "folder_id", folderID, "depth", depth)
		return nil, nil
	}
	visited[folderID] = true

	var docs []domain.DocRef
	pageToken := ""

	for {
		page, err := c.listFolderPage(ctx, folderID, pageToken)
		if err != nil {
			if depth == 0 && pageToken == "" {
				return nil, err
			}
			c.logger.Warn("giving up on folder page",
				"folder_id", folderID,
				"page_token", pageToken,
				"error", err,
			)
			return docs, nil
		}

		for _, f := range page.Files {
			switch {
			case f.Type == "folder":
				sub, err := c.walkFolder(ctx, f.Token, joinPath(path, f.Name), depth+1, maxDepth, visited)
				if err != nil {
					return docs, err
				}
				docs = append(docs, sub...)
			case syncableTypes[f.Type]:
				docs = append(docs, toDocRef(f, path))
			}
		}

		next := page.nextToken()
		if !page.HasMore || next == "" {
			return docs, nil
		}
		pageToken = next

		select {
		case <-ctx.Done():
			return docs, ctx.Err()
		case <-time.After(c.pageInterval):
		}
	}
}

func (c *Client) listFolderPage(ctx context.Context, folderID, pageToken string) (*filesPage, error) {
	var page filesPage
	err := c.request(ctx, http.MethodGet, "/drive/v1/files", func(req *resty.Request) {
		req.SetQueryParam("folder_token", folderID)
		req.SetQueryParam("page_size", pageSizeList)
		if pageToken != "" {
			req.SetQueryParam("page_token", pageToken)
		}
	}, &page)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimitExceeded) {
			return nil, fmt.Errorf("folder %s page %q after %d retries: %w", folderID, pageToken, c.maxRetries, err)
		}
		return nil, err
	}
	return &page, nil
}

func (c *Client) cachedFolder(key folderCacheKey) (docs []domain.DocRef, fresh, ok bool) {
	c.folderMu.RLock()
	defer c.folderMu.RUnlock()

	entry, ok := c.folderCache[key]
	if !ok {
		return nil, false, false
	}
	fresh = c.now().Sub(entry.storedAt) < c.folderCacheTTL
	return append([]domain.DocRef(nil), entry.docs...), fresh, true
}

func (c *Client) storeFolder(key folderCacheKey, docs []domain.DocRef) {
	c.folderMu.Lock()
	c.folderCache[key] = folderCacheEntry{docs: append([]domain.DocRef(nil), docs...), storedAt: c.now()}
	c.folderMu.Unlock()
}

func toDocRef(f driveFile, path string) domain.DocRef {
	return domain.DocRef{
		Token:      f.Token,
		Name:       f.Name,
		Type:       f.Type,
		URL:        f.URL,
		FolderPath: path,
		OwnerID:    f.OwnerID,
		CreatedAt:  parseUnix(f.CreatedTime),
		ModifiedAt: parseUnix(f.ModifiedTime),
	}
}

func parseUnix(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil || sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// DownloadFile fetches the raw bytes of a drive file or document media.
func (c *Client) DownloadFile(ctx context.Context, token string) ([]byte, error) {
	var data []byte
	path := "/drive/v1/medias/" + token + "/download"

	err := c.withRateLimitRetry(ctx, "download "+token, func() error {
		resp, err := c.execute(ctx, c.download, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		data = resp.Body()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", token, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("download file %s: %w: empty body", token, domain.ErrUpstream)
	}

	return data, nil
}
