package workspace

import (
	"net/url"
	"os"
	"strings"
)

// DroppedPath interprets pasted text as a file dropped onto the terminal.
// Terminals paste the path, sometimes quoted, shell-escaped or as a
// file:// URI. It reports false unless the text names an existing
// regular file.
func DroppedPath(pasted string) (string, bool) {
	text := strings.TrimSpace(pasted)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	if text == "" {
		return "", false
	}

	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '\'' || first == '"') && first == last {
			text = text[1 : len(text)-1]
		}
	}

	if strings.HasPrefix(text, "file://") {
		u, err := url.Parse(text)
		if err != nil {
			return "", false
		}
		text = u.Path
	} else {
		text = strings.ReplaceAll(text, `\ `, " ")
	}

	info, err := os.Stat(text)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return text, true
}
