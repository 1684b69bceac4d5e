package site

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iedon/docsite-go/config"
	"github.com/iedon/docsite-go/fsutil"
	"github.com/iedon/docsite-go/renderer"
	"github.com/iedon/docsite-go/templatex"
)

// Service renders the configured documentation into a static site.
type Service struct {
	cfg       *config.Config
	templates *templatex.Engine
	renderer  *renderer.Renderer
	logger    *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg *config.Config, templates *templatex.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		templates: templates,
		renderer:  renderer.New(renderer.Options{Highlight: cfg.Markdown.Highlight}),
		logger:    logger,
	}
}

// Build copies the theme assets, then the documentation static files, then
// renders every page. Any failure aborts the build.
//
// With CleanBuild the site is assembled in a temporary sibling directory that
// replaces SiteDir only once every step succeeded.
func (s *Service) Build(ctx context.Context) error {
	if !s.cfg.CleanBuild {
		return s.buildInto(ctx, s.cfg.SiteDir)
	}

	finalDir := s.cfg.SiteDir
	parent := filepath.Dir(finalDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("ensure output parent: %w", err)
	}

	tempDir, err := os.MkdirTemp(parent, ".__build-")
	if err != nil {
		return fmt.Errorf("create temp output dir: %w", err)
	}
	cleanTemp := true
	defer func() {
		if cleanTemp {
			_ = os.RemoveAll(tempDir)
		}
	}()

	if err := s.buildInto(ctx, tempDir); err != nil {
		return err
	}
	if err := os.Chmod(tempDir, 0o755); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}

	backupDir := finalDir + ".old"
	if err := os.RemoveAll(backupDir); err != nil {
		return fmt.Errorf("clean backup dir: %w", err)
	}

	if err := os.Rename(finalDir, backupDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate old output: %w", err)
	}

	if err := os.Rename(tempDir, finalDir); err != nil {
		_ = os.Rename(backupDir, finalDir)
		return fmt.Errorf("activate new output: %w", err)
	}

	_ = os.RemoveAll(backupDir)
	cleanTemp = false
	return nil
}

func (s *Service) buildInto(ctx context.Context, outDir string) error {
	started := time.Now()

	themeFiles, err := s.buildTheme(outDir)
	if err != nil {
		return fmt.Errorf("copy theme: %w", err)
	}
	s.logger.Debug("theme copied", "files", themeFiles, "output", outDir)

	staticFiles, err := s.buildStatics(outDir)
	if err != nil {
		return fmt.Errorf("copy static files: %w", err)
	}
	s.logger.Debug("static files copied", "files", staticFiles, "output", outDir)

	pages, err := s.buildPages(ctx, outDir)
	if err != nil {
		return err
	}

	s.logger.Info("site built",
		"pages", pages,
		"theme_files", themeFiles,
		"static_files", staticFiles,
		"output", s.cfg.SiteDir,
		"elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}

// buildTheme copies every non-template file of the theme.
func (s *Service) buildTheme(outDir string) (int, error) {
	return fsutil.CopyTree(s.cfg.ThemeDir, outDir, func(rel string, d fs.DirEntry) bool {
		return !d.IsDir() && templatex.IsTemplate(rel)
	})
}

// buildStatics copies every non-document file of the docs directory.
func (s *Service) buildStatics(outDir string) (int, error) {
	excluded := map[string]struct{}{
		filepath.Clean(outDir):                 {},
		filepath.Clean(s.cfg.SiteDir):          {},
		filepath.Clean(s.cfg.SiteDir + ".old"): {},
		filepath.Clean(s.cfg.ThemeDir):         {},
	}
	return fsutil.CopyTree(s.cfg.DocsDir, outDir, func(rel string, d fs.DirEntry) bool {
		if isIgnorable(d.Name()) {
			return true
		}
		if d.IsDir() {
			_, skip := excluded[filepath.Join(s.cfg.DocsDir, filepath.FromSlash(rel))]
			return skip
		}
		return config.IsMarkdown(rel)
	})
}

// isIgnorable matches VCS files and the staging directories of interrupted
// clean builds.
func isIgnorable(name string) bool {
	return strings.HasPrefix(name, ".git") || strings.HasPrefix(name, ".__build-")
}
