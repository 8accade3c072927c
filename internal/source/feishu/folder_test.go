package feishu

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"docsync/internal/domain"
)

func file(token, name, typ string) map[string]any {
	return map[string]any{"token": token, "name": name, "type": typ, "url": "https://example.feishu.cn/" + typ + "/" + token}
}

func (s *ClientTestSuite) TestListFolder_RetriesRateLimitedPage() {
	var calls atomic.Int32
	s.mux.HandleFunc("GET /drive/v1/files", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"code": 99991400, "msg": "request trigger frequency limit"})
			return
		}
		writeJSON(w, http.StatusOK, ok(map[string]any{
			"has_more": false,
			"files": []any{
				file("doc_a", "A", "docx"),
				file("doc_b", "B", "sheet"),
				file("bin_c", "C", "file"),
			},
		}))
	})

	start := time.Now()
	docs, err := s.client.ListFolder(context.Background(), "root", 3, false)
	elapsed := time.Since(start)

	s.Require().NoError(err)
	s.Len(docs, 2)
	s.Equal("doc_a", docs[0].Token)
	s.Equal("doc_b", docs[1].Token)
	s.EqualValues(2, calls.Load())
	s.GreaterOrEqual(elapsed, s.client.backoff)
}

func (s *ClientTestSuite) TestListFolder_GivesUpAfterRetries() {
	var calls atomic.Int32
	s.mux.HandleFunc("GET /drive/v1/files", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	s.client.backoff = time.Millisecond

	_, err := s.client.ListFolder(context.Background(), "root", 3, false)

	s.ErrorIs(err, domain.ErrRateLimitExceeded)
	s.EqualValues(s.client.maxRetries+1, calls.Load())
}

func (s *ClientTestSuite) TestListFolder_PaginatesAndRecurses() {
	s.mux.HandleFunc("GET /drive/v1/files", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		s.Equal("100", q.Get("page_size"))

		switch q.Get("folder_token") {
		case "root":
			if q.Get("page_token") == "" {
				writeJSON(w, http.StatusOK, ok(map[string]any{
					"has_more":        true,
					"next_page_token": "next",
					"files":           []any{file("doc_1", "One", "docx"), file("sub", "Sub", "folder")},
				}))
				return
			}
			writeJSON(w, http.StatusOK, ok(map[string]any{
				"has_more": false,
				"files":    []any{file("doc_2", "Two", "doc")},
			}))
		case "sub":
			writeJSON(w, http.StatusOK, ok(map[string]any{
				"files": []any{
					file("base_3", "Three", "bitable"),
					// Points back at the root folder.
					file("root", "Loop", "folder"),
				},
			}))
		default:
			s.Failf("unexpected folder", "%s", q.Get("folder_token"))
		}
	})

	docs, err := s.client.ListFolder(context.Background(), "root", 5, false)
	s.Require().NoError(err)

	tokens := make([]string, 0, len(docs))
	for _, d := range docs {
		tokens = append(tokens, d.Token)
	}
	s.Equal([]string{"doc_1", "base_3", "doc_2"}, tokens)
	s.Equal("Sub", docs[1].FolderPath)
	s.Equal(domain.ContentDatabase, docs[1].ContentType())
}

func (s *ClientTestSuite) TestListFolder_StopsAtMaxDepth() {
	var subCalls atomic.Int32
	s.mux.HandleFunc("GET /drive/v1/files", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("folder_token") == "root" {
			writeJSON(w, http.StatusOK, ok(map[string]any{
				"files": []any{file("doc_1", "One", "docx"), file("sub", "Sub", "folder")},
			}))
			return
		}
		subCalls.Add(1)
		writeJSON(w, http.StatusOK, ok(map[string]any{"files": []any{file("doc_2", "Two", "docx")}}))
	})

	docs, err := s.client.ListFolder(context.Background(), "root", 1, false)

	s.Require().NoError(err)
	s.Len(docs, 1)
	s.EqualValues(0, subCalls.Load())
}

func (s *ClientTestSuite) TestListFolder_CacheAndStaleFallback() {
	var calls atomic.Int32
	var failing atomic.Bool
	s.mux.HandleFunc("GET /drive/v1/files", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ok(map[string]any{"files": []any{file("doc_1", "One", "docx")}}))
	})
	ctx := context.Background()

	docs, err := s.client.ListFolder(ctx, "root", 2, true)
	s.Require().NoError(err)
	s.Len(docs, 1)

	_, err = s.client.ListFolder(ctx, "root", 2, true)
	s.Require().NoError(err)
	s.EqualValues(1, calls.Load(), "fresh cache entry short-circuits the walk")

	s.now = s.now.Add(11 * time.Minute)
	failing.Store(true)

	docs, err = s.client.ListFolder(ctx, "root", 2, true)
	s.Require().NoError(err)
	s.Len(docs, 1, "stale cache serves as degraded response")
	s.EqualValues(2, calls.Load())

	_, err = s.client.ListFolder(ctx, "other", 2, true)
	s.ErrorIs(err, domain.ErrUpstream)
}
