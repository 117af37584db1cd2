// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is a blog post with its four ordered child collections. List
// views leave the collections nil; the detail view fills all four.
type Article struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	MetaTitle       string     `json:"metaTitle"`
	MetaDescription string     `json:"metaDescription"`
	Introduction    string     `json:"introduction"`
	Conclusion      string     `json:"conclusion"`
	PublishedAt     *time.Time `json:"publishedAt"`
	CategoryName    string     `json:"categoryName"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Category        *Category        `json:"category,omitempty"`
	TocItems        []TocItem        `json:"tocItems,omitempty"`
	ContentSections []ContentSection `json:"contentSections,omitempty"`
	Faqs            []Faq            `json:"faqs,omitempty"`
	Images          []ArticleImage   `json:"images,omitempty"`
}

// ArticleDetail is the single-article view. Unlike Article it always
// encodes all four collections, as [] when empty.
type ArticleDetail struct {
	*Article
	TocItems        []TocItem        `json:"tocItems"`
	ContentSections []ContentSection `json:"contentSections"`
	Faqs            []Faq            `json:"faqs"`
	Images          []ArticleImage   `json:"images"`
}

// Detail returns the detail view of the article.
func (a *Article) Detail() ArticleDetail {
	return ArticleDetail{
		Article:         a,
		TocItems:        nonNil(a.TocItems),
		ContentSections: nonNil(a.ContentSections),
		Faqs:            nonNil(a.Faqs),
		Images:          nonNil(a.Images),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// TocItem is a table-of-contents entry.
type TocItem struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Order int       `json:"order"`
}

// ContentSection is one titled block of the article body. ContentHTML is
// not stored; it is rendered from Content for the detail view.
type ContentSection struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml,omitempty"`
	Order       int       `json:"order"`
}

// Faq is a question/answer pair shown at the end of an article.
type Faq struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Order    int       `json:"order"`
}

// ArticleImage is an image attached to an article.
type ArticleImage struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	Alt   string    `json:"alt"`
	Order int       `json:"order"`
}
