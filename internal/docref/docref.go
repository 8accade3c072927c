// Package docref normalizes document references (share URLs or bare ids)
// into platform document identifiers.
package docref

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"docsync/internal/domain"
)

const MaxIDLength = 100

type Ref struct {
	Platform domain.Platform `json:"platform"`
	ID       string          `json:"document_id"`
	// Kind is the path segment the id was found after, e.g. "docx" or "folder".
	Kind string `json:"kind,omitempty"`
	Raw  string `json:"raw"`
}

var (
	feishuKinds = []string{"drive/folder", "docx", "docs", "wiki", "sheets", "base", "folder"}
	notionID    = regexp.MustCompile(`[0-9a-fA-F]{32}$`)
	bareID      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Parse resolves raw into a Ref. Bare ids are attributed to fallback.
func Parse(raw string, fallback domain.Platform) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, fmt.Errorf("%w: empty document reference", domain.ErrValidation)
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return bare(raw, fallback)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: parse url %q: %v", domain.ErrValidation, raw, err)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "feishu") || strings.Contains(host, "larksuite"):
		return parseFeishu(u, raw)
	case strings.Contains(host, "notion"):
		return parseNotion(u, raw)
	default:
		return Ref{}, fmt.Errorf("%w: unsupported host %q", domain.ErrValidation, host)
	}
}

func parseFeishu(u *url.URL, raw string) (Ref, error) {
	path := strings.Trim(u.Path, "/")
	for _, kind := range feishuKinds {
		prefix := kind + "/"
		idx := strings.Index(path, prefix)
		if idx < 0 || (idx > 0 && path[idx-1] != '/') {
			continue
		}
		id := strings.SplitN(path[idx+len(prefix):], "/", 2)[0]
		if id == "" {
			break
		}
		return validate(Ref{Platform: domain.PlatformFeishu, ID: id, Kind: kind, Raw: raw})
	}

	segments := strings.Split(path, "/")
	id := segments[len(segments)-1]
	if id == "" {
		return Ref{}, fmt.Errorf("%w: no document id in %q", domain.ErrValidation, raw)
	}
	return validate(Ref{Platform: domain.PlatformFeishu, ID: id, Raw: raw})
}

func parseNotion(u *url.URL, raw string) (Ref, error) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if m := notionID.FindString(strings.ReplaceAll(last, "-", "")); m != "" {
		return validate(Ref{Platform: domain.PlatformNotion, ID: strings.ToLower(m), Kind: "page", Raw: raw})
	}
	if last == "" {
		return Ref{}, fmt.Errorf("%w: no page id in %q", domain.ErrValidation, raw)
	}
	return validate(Ref{Platform: domain.PlatformNotion, ID: last, Kind: "page", Raw: raw})
}

func bare(raw string, fallback domain.Platform) (Ref, error) {
	if !fallback.Valid() {
		return Ref{}, fmt.Errorf("%w: unknown platform %q", domain.ErrValidation, fallback)
	}
	if !bareID.MatchString(raw) {
		return Ref{}, fmt.Errorf("%w: invalid document id %q", domain.ErrValidation, raw)
	}
	return validate(Ref{Platform: fallback, ID: raw, Raw: raw})
}

func validate(ref Ref) (Ref, error) {
	if len(ref.ID) > MaxIDLength {
		return Ref{}, fmt.Errorf("%w: document id longer than %d characters", domain.ErrValidation, MaxIDLength)
	}
	return ref, nil
}
