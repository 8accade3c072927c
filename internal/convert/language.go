package convert

import "strings"

// sourceLanguages maps the source platform's numeric code-language ids.
var sourceLanguages = map[int]string{
	0: "plain_text", 1: "python", 2: "java", 3: "cpp", 4: "c", 5: "csharp",
	6: "javascript", 7: "bash", 8: "shell", 9: "go", 10: "php", 11: "ruby",
	12: "swift", 13: "kotlin", 14: "rust", 15: "typescript", 16: "html", 17: "css",
	18: "scss", 19: "less", 20: "xml", 21: "json", 22: "yaml", 23: "toml",
	24: "ini", 25: "dockerfile", 26: "makefile", 27: "cmake", 28: "sql", 29: "markdown",
	30: "latex", 31: "r", 32: "matlab", 33: "scala", 34: "perl", 35: "lua",
	36: "dart", 37: "vim", 38: "apache", 39: "nginx", 40: "powershell", 41: "batch",
	42: "asm", 43: "pascal", 44: "fortran", 45: "cobol", 46: "prolog", 47: "haskell",
	48: "scheme", 49: "bash",
}

// destinationLanguages maps source language names onto names the destination
// accepts. Anything missing becomes "plain text".
var destinationLanguages = map[string]string{
	"plain_text": "plain text",
	"python":     "python",
	"java":       "java",
	"cpp":        "c++",
	"c":          "c",
	"csharp":     "c#",
	"javascript": "javascript",
	"bash":       "bash",
	"shell":      "shell",
	"go":         "go",
	"php":        "php",
	"ruby":       "ruby",
	"swift":      "swift",
	"kotlin":     "kotlin",
	"rust":       "rust",
	"typescript": "typescript",
	"html":       "html",
	"css":        "css",
	"scss":       "scss",
	"less":       "less",
	"xml":        "xml",
	"json":       "json",
	"yaml":       "yaml",
	"dockerfile": "docker",
	"makefile":   "makefile",
	"sql":        "sql",
	"markdown":   "markdown",
	"latex":      "latex",
	"r":          "r",
	"matlab":     "matlab",
	"scala":      "scala",
	"perl":       "perl",
	"lua":        "lua",
	"dart":       "dart",
	"powershell": "powershell",
	"pascal":     "pascal",
	"fortran":    "fortran",
	"prolog":     "prolog",
	"haskell":    "haskell",
	"scheme":     "scheme",
}

const fallbackLanguage = "plain text"

// SourceLanguageName resolves a numeric language id. Unknown ids yield "".
func SourceLanguageName(id int) string {
	return sourceLanguages[id]
}

// DestinationLanguage normalizes a source language name.
func DestinationLanguage(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	if lang, ok := destinationLanguages[key]; ok {
		return lang
	}
	return fallbackLanguage
}
