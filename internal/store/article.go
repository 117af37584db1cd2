// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"directorio/internal/models"
	"directorio/internal/slug"
)

// ArticleStore reads and writes articles together with their table of
// contents, sections, FAQs and images. Every write replaces the article's
// complete state inside one transaction.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `
	a.id, a.title, a.slug, a.meta_title, a.meta_description, a.introduction,
	a.conclusion, a.published_at, a.category_name, a.created_at, a.updated_at,
	c.id, c.name, c.created_at`

const articleFrom = ` FROM articles a JOIN categories c ON c.name = a.category_name`

// scanArticle scans a row selected with articleColumns.
func scanArticle(row scanner) (*models.Article, error) {
	var a models.Article
	var c models.Category
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.MetaTitle, &a.MetaDescription, &a.Introduction,
		&a.Conclusion, &a.PublishedAt, &a.CategoryName, &a.CreatedAt, &a.UpdatedAt,
		&c.ID, &c.Name, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Category = &c
	return &a, nil
}

// List returns all articles with their category, newest first. Child
// collections are not loaded.
func (s *ArticleStore) List(ctx context.Context) ([]models.Article, error) {
	return s.list(ctx, `SELECT `+articleColumns+articleFrom+` ORDER BY a.created_at DESC`)
}

// Recent returns the n most recently created articles.
func (s *ArticleStore) Recent(ctx context.Context, n int) ([]models.Article, error) {
	return s.list(ctx, `SELECT `+articleColumns+articleFrom+` ORDER BY a.created_at DESC LIMIT $1`, n)
}

func (s *ArticleStore) list(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	items := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Count returns the number of articles.
func (s *ArticleStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// FindByID returns the article with all four child collections ordered by
// position. The parent and children are read from one snapshot, so a
// concurrent Update is seen either entirely or not at all. Returns
// ErrNotFound if there is no such article.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article *models.Article
	err := withSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		a, err := scanArticle(tx.QueryRowContext(ctx,
			`SELECT `+articleColumns+articleFrom+` WHERE a.id = $1`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := loadArticleChildren(ctx, tx, a); err != nil {
			return err
		}
		article = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return article, nil
}

// Create inserts the article and all of its children in one transaction
// and returns the stored article. The slug is derived from the title and
// publishedAt is set to the current time.
func (s *ArticleStore) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := requireCategory(ctx, tx, in.CategoryName); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO articles (title, slug, meta_title, meta_description,
			                      introduction, conclusion, published_at, category_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, in.Title, slug.Generate(in.Title), in.MetaTitle, in.MetaDescription,
			in.Introduction, in.Conclusion, time.Now(), in.CategoryName,
		).Scan(&id)
		if err != nil {
			return mapConstraintError(err)
		}

		return insertArticleChildren(ctx, tx, id, &in)
	})
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Update replaces the article's scalar fields and every child collection
// with the submitted state. Existing children are deleted and the new ones
// inserted with fresh positions; the parent row is locked for the duration
// so concurrent updates of the same article serialize.
func (s *ArticleStore) Update(ctx context.Context, id uuid.UUID, in ArticleInput) (*models.Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM articles WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock article: %w", err)
		}

		if err := requireCategory(ctx, tx, in.CategoryName); err != nil {
			return err
		}

		if err := deleteArticleChildren(ctx, tx, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE articles SET
				title = $1, slug = $2, meta_title = $3, meta_description = $4,
				introduction = $5, conclusion = $6, category_name = $7,
				updated_at = NOW()
			WHERE id = $8
		`, in.Title, slug.Generate(in.Title), in.MetaTitle, in.MetaDescription,
			in.Introduction, in.Conclusion, in.CategoryName, id,
		)
		if err != nil {
			return mapConstraintError(err)
		}

		return insertArticleChildren(ctx, tx, id, &in)
	})
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Delete removes the article and its four child collections. Returns
// ErrNotFound if there is no such article.
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteArticleChildren(ctx, tx, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// articleChildTables lists every table keyed by article_id.
var articleChildTables = []string{"toc_items", "content_sections", "faqs", "article_images"}

func deleteArticleChildren(ctx context.Context, tx *sql.Tx, articleID uuid.UUID) error {
	for _, table := range articleChildTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE article_id = $1`, articleID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

// insertArticleChildren writes the four collections. Each child's
// position is its index in the submitted slice.
func insertArticleChildren(ctx context.Context, tx *sql.Tx, articleID uuid.UUID, in *ArticleInput) error {
	toc := in.tocItems()
	err := insertRows(ctx, tx,
		`INSERT INTO toc_items (article_id, title, sort_order) VALUES ($1, $2, $3)`,
		len(toc), func(i int) []any { return []any{articleID, toc[i].Title, i} })
	if err != nil {
		return fmt.Errorf("insert toc items: %w", err)
	}

	err = insertRows(ctx, tx,
		`INSERT INTO content_sections (article_id, title, content, sort_order) VALUES ($1, $2, $3, $4)`,
		len(in.Sections), func(i int) []any {
			return []any{articleID, in.Sections[i].Title, in.Sections[i].Content, i}
		})
	if err != nil {
		return fmt.Errorf("insert content sections: %w", err)
	}

	err = insertRows(ctx, tx,
		`INSERT INTO faqs (article_id, question, answer, sort_order) VALUES ($1, $2, $3, $4)`,
		len(in.Faqs), func(i int) []any {
			return []any{articleID, in.Faqs[i].Question, in.Faqs[i].Answer, i}
		})
	if err != nil {
		return fmt.Errorf("insert faqs: %w", err)
	}

	err = insertRows(ctx, tx,
		`INSERT INTO article_images (article_id, url, alt, sort_order) VALUES ($1, $2, $3, $4)`,
		len(in.Images), func(i int) []any {
			return []any{articleID, in.Images[i].URL, in.Images[i].Alt, i}
		})
	if err != nil {
		return fmt.Errorf("insert article images: %w", err)
	}
	return nil
}

// loadArticleChildren fills the four collections of a, each ordered by
// position. Collections are empty, never nil, after loading.
func loadArticleChildren(ctx context.Context, q querier, a *models.Article) error {
	a.TocItems = []models.TocItem{}
	a.ContentSections = []models.ContentSection{}
	a.Faqs = []models.Faq{}
	a.Images = []models.ArticleImage{}

	err := eachRow(ctx, q, `SELECT id, title, sort_order FROM toc_items WHERE article_id = $1 ORDER BY sort_order`,
		a.ID, func(r scanner) error {
			var t models.TocItem
			if err := r.Scan(&t.ID, &t.Title, &t.Order); err != nil {
				return err
			}
			a.TocItems = append(a.TocItems, t)
			return nil
		})
	if err != nil {
		return fmt.Errorf("load toc items: %w", err)
	}

	err = eachRow(ctx, q, `SELECT id, title, content, sort_order FROM content_sections WHERE article_id = $1 ORDER BY sort_order`,
		a.ID, func(r scanner) error {
			var c models.ContentSection
			if err := r.Scan(&c.ID, &c.Title, &c.Content, &c.Order); err != nil {
				return err
			}
			a.ContentSections = append(a.ContentSections, c)
			return nil
		})
	if err != nil {
		return fmt.Errorf("load content sections: %w", err)
	}

	err = eachRow(ctx, q, `SELECT id, question, answer, sort_order FROM faqs WHERE article_id = $1 ORDER BY sort_order`,
		a.ID, func(r scanner) error {
			var f models.Faq
			if err := r.Scan(&f.ID, &f.Question, &f.Answer, &f.Order); err != nil {
				return err
			}
			a.Faqs = append(a.Faqs, f)
			return nil
		})
	if err != nil {
		return fmt.Errorf("load faqs: %w", err)
	}

	err = eachRow(ctx, q, `SELECT id, url, alt, sort_order FROM article_images WHERE article_id = $1 ORDER BY sort_order`,
		a.ID, func(r scanner) error {
			var img models.ArticleImage
			if err := r.Scan(&img.ID, &img.URL, &img.Alt, &img.Order); err != nil {
				return err
			}
			a.Images = append(a.Images, img)
			return nil
		})
	if err != nil {
		return fmt.Errorf("load article images: %w", err)
	}
	return nil
}

// eachRow runs query and calls fn for every result row.
func eachRow(ctx context.Context, q querier, query string, arg any, fn func(scanner) error) error {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
