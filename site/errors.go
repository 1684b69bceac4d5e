package site

import (
	"errors"

	"github.com/iedon/docsite-go/templatex"
)

var (
	// ErrPageNotFound signals a path missing from the configured page list.
	ErrPageNotFound = errors.New("page is not declared in the page list")
	ErrSourceRead   = errors.New("cannot read source document")
	ErrConversion   = errors.New("markdown conversion failed")
	// ErrMalformedTOC is returned when a table of contents fragment does not
	// have the nested list layout produced by the converter.
	ErrMalformedTOC     = errors.New("malformed table of contents")
	ErrTemplateNotFound = templatex.ErrTemplateNotFound
)
