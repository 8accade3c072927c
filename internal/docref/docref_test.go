package docref

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		platform domain.Platform
		id       string
		kind     string
	}{
		{"docx url", "https://example.feishu.cn/docx/AbCdEf123?from=share#part", domain.PlatformFeishu, "AbCdEf123", "docx"},
		{"wiki url", "https://example.feishu.cn/wiki/WikiTok42", domain.PlatformFeishu, "WikiTok42", "wiki"},
		{"lark folder", "https://x.larksuite.com/drive/folder/fldTok/", domain.PlatformFeishu, "fldTok", "drive/folder"},
		{"sheets", "https://example.feishu.cn/sheets/shtcn99", domain.PlatformFeishu, "shtcn99", "sheets"},
		{"feishu unknown path", "https://example.feishu.cn/other/thing/LastSeg", domain.PlatformFeishu, "LastSeg", ""},
		{"notion page", "https://www.notion.so/team/My-Page-0123456789abcdef0123456789ABCDEF", domain.PlatformNotion, "0123456789abcdef0123456789abcdef", "page"},
		{"bare id", "  doxcnAbc_123  ", domain.PlatformFeishu, "doxcnAbc_123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Parse(tt.raw, domain.PlatformFeishu)
			require.NoError(t, err)
			assert.Equal(t, tt.platform, ref.Platform)
			assert.Equal(t, tt.id, ref.ID)
			assert.Equal(t, tt.kind, ref.Kind)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []string{
		"",
		"https://example.com/docx/abc",
		"not an id!",
		strings.Repeat("a", MaxIDLength+1),
	}

	for _, raw := range cases {
		_, err := Parse(raw, domain.PlatformFeishu)
		assert.ErrorIs(t, err, domain.ErrValidation, raw)
	}
}

func TestParse_BareIDNeedsPlatform(t *testing.T) {
	_, err := Parse("abc", domain.Platform("dropbox"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
