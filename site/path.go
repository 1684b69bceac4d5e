package site

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/iedon/docsite-go/config"
)

// OutputPath maps a docs-relative source path to its slash-separated output
// path: "index.md" -> "index.html", "guide/index.md" -> "guide/index.html",
// "guide/install.md" -> "guide/install/index.html".
func OutputPath(relPath string) string {
	stem := stripExt(filepath.ToSlash(relPath))
	if path.Base(stem) == "index" {
		return stem + ".html"
	}
	return stem + "/index.html"
}

// PathToURL returns the public URL of a docs-relative source path.
func PathToURL(relPath string, cfg *config.Config) string {
	if cfg.LocalFiles {
		return cfg.BaseURL + "/" + OutputPath(relPath)
	}

	url := cfg.BaseURL + "/" + stripExt(filepath.ToSlash(relPath))
	if strings.HasSuffix(url, "/index") {
		return strings.TrimSuffix(url, "index")
	}
	return url + "/"
}

// PreviousAndNextURLs returns the URLs of the pages declared immediately
// before and after relPath. Either is empty at the ends of the list.
func PreviousAndNextURLs(relPath string, cfg *config.Config) (string, string, error) {
	idx := -1
	for i, page := range cfg.Pages {
		if page.Path == relPath {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %s", ErrPageNotFound, relPath)
	}

	var prev, next string
	if idx > 0 {
		prev = PathToURL(cfg.Pages[idx-1].Path, cfg)
	}
	if idx+1 < len(cfg.Pages) {
		next = PathToURL(cfg.Pages[idx+1].Path, cfg)
	}
	return prev, next, nil
}

func stripExt(slashPath string) string {
	return strings.TrimSuffix(slashPath, path.Ext(slashPath))
}
