package site

import (
	"path/filepath"

	"github.com/iedon/docsite-go/config"
)

// page carries the resolved locations of one configured page for a build.
type page struct {
	Source      string
	SourcePath  string
	OutputPath  string
	URL         string
	Title       string
	PreviousURL string
	NextURL     string
}

func newPage(entry config.Page, cfg *config.Config, outDir string) (page, error) {
	prev, next, err := PreviousAndNextURLs(entry.Path, cfg)
	if err != nil {
		return page{}, err
	}
	return page{
		Source:      entry.Path,
		SourcePath:  filepath.Join(cfg.DocsDir, filepath.FromSlash(entry.Path)),
		OutputPath:  filepath.Join(outDir, filepath.FromSlash(OutputPath(entry.Path))),
		URL:         PathToURL(entry.Path, cfg),
		Title:       entry.Title,
		PreviousURL: prev,
		NextURL:     next,
	}, nil
}
