// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts article section Markdown into HTML using
// goldmark and sanitizes the result with bluemonday. Stored content is never
// modified; HTML is produced when an article is read.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"directorio/internal/models"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // raw HTML passes through goldmark; policy strips what is unsafe
	),
)

// policy is safe for concurrent use once built.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// ToHTML converts Markdown source into HTML without sanitizing it.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToSafeHTML converts Markdown source into HTML and removes scripts, event
// handlers and any other markup outside the UGC policy.
func ToSafeHTML(source string) (string, error) {
	raw, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	return policy.Sanitize(raw), nil
}

// RenderSections fills ContentHTML for every section of the article.
func RenderSections(a *models.Article) error {
	for i := range a.ContentSections {
		h, err := ToSafeHTML(a.ContentSections[i].Content)
		if err != nil {
			return err
		}
		a.ContentSections[i].ContentHTML = h
	}
	return nil
}
