package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkdownConfig groups converter options.
type MarkdownConfig struct {
	Highlight bool `json:"highlight" yaml:"highlight"`
	Sanitize  bool `json:"sanitize" yaml:"sanitize"`
}

// Config encapsulates build-time options. It is not modified after Load.
type Config struct {
	SiteName        string         `json:"siteName" yaml:"site_name"`
	Pages           []Page         `json:"pages" yaml:"pages"`
	DocsDir         string         `json:"docsDir" yaml:"docs_dir"`
	SiteDir         string         `json:"siteDir" yaml:"site_dir"`
	ThemeDir        string         `json:"themeDir" yaml:"theme_dir"`
	BaseURL         string         `json:"baseUrl" yaml:"base_url"`
	LocalFiles      bool           `json:"localFiles" yaml:"local_files"`
	DefaultTemplate string         `json:"defaultTemplate" yaml:"default_template"`
	CodeClass       string         `json:"codeClass" yaml:"code_class"`
	Markdown        MarkdownConfig `json:"markdown" yaml:"markdown"`
	Minify          bool           `json:"minify" yaml:"minify"`
	CleanBuild      bool           `json:"cleanBuild" yaml:"clean_build"`
	LogLevel        string         `json:"logLevel" yaml:"log_level"`
}

// Load reads configuration from disk and applies sane defaults.
// Files ending in .json are decoded as JSON, everything else as YAML.
func Load(path string) (*Config, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(bytes, cfg)
	} else {
		err = yaml.Unmarshal(bytes, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults(filepath.Dir(path))
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults(root string) {
	c.SiteName = strings.TrimSpace(c.SiteName)
	if c.SiteName == "" {
		c.SiteName = "Untitled"
	}
	if c.DocsDir == "" {
		c.DocsDir = "docs"
	}
	if c.SiteDir == "" {
		c.SiteDir = "site"
	}
	if c.ThemeDir == "" {
		c.ThemeDir = "theme"
	}
	c.DocsDir = resolveDir(root, c.DocsDir)
	c.SiteDir = resolveDir(root, c.SiteDir)
	c.ThemeDir = resolveDir(root, c.ThemeDir)

	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")

	c.DefaultTemplate = strings.TrimSpace(c.DefaultTemplate)
	if c.DefaultTemplate == "" {
		c.DefaultTemplate = "base.html"
	}
	c.CodeClass = strings.TrimSpace(c.CodeClass)
	if c.CodeClass == "" {
		c.CodeClass = "prettyprint well"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	for i := range c.Pages {
		c.Pages[i].Path = normalizePagePath(c.Pages[i].Path)
		c.Pages[i].Title = strings.TrimSpace(c.Pages[i].Title)
		if c.Pages[i].Title == "" {
			c.Pages[i].Title = deriveTitle(c.Pages[i].Path)
		}
	}
}

func (c *Config) validate() error {
	if len(c.Pages) == 0 {
		return fmt.Errorf("no pages configured")
	}
	seen := make(map[string]struct{}, len(c.Pages))
	for i, page := range c.Pages {
		if page.Path == "" {
			return fmt.Errorf("page %d: empty path", i)
		}
		if strings.HasPrefix(page.Path, "/") {
			return fmt.Errorf("page %q: path must be relative to docs_dir", page.Path)
		}
		if page.Path == ".." || strings.HasPrefix(page.Path, "../") {
			return fmt.Errorf("page %q: path escapes docs_dir", page.Path)
		}
		if !IsMarkdown(page.Path) {
			return fmt.Errorf("page %q: not a markdown document", page.Path)
		}
		if _, ok := seen[page.Path]; ok {
			return fmt.Errorf("page %q: declared more than once", page.Path)
		}
		seen[page.Path] = struct{}{}
	}
	if c.DefaultTemplate != path.Base(c.DefaultTemplate) {
		return fmt.Errorf("default template %q must be a file name", c.DefaultTemplate)
	}
	return nil
}

// IsMarkdown reports whether the path names a markdown document.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(filepath.ToSlash(name))) {
	case ".md", ".markdown", ".mdown", ".mkdn", ".mkd":
		return true
	}
	return false
}

func resolveDir(root, dir string) string {
	dir = strings.TrimSpace(dir)
	if filepath.IsAbs(dir) || root == "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

func normalizePagePath(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")
	cleaned := path.Clean(trimmed)
	for strings.HasPrefix(cleaned, "./") {
		cleaned = strings.TrimPrefix(cleaned, "./")
	}
	return cleaned
}

func deriveTitle(relPath string) string {
	name := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "Untitled"
	}
	return name
}
