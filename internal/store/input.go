package store

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"directorio/internal/models"
	"directorio/internal/slug"
)

// Field limits, matched by the column sizes in the migrations.
const (
	maxTitleLen    = 300
	maxMetaDescLen = 500
	maxNameLen     = 200
	maxCityLen     = 120
	maxContactLen  = 200
	maxPhoneLen    = 50
	maxBodyLen     = 100_000
)

// ArticleInput is the full submitted state of an article. Child order is
// the position in each slice; there is no way to supply it explicitly.
type ArticleInput struct {
	Title           string `json:"title"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	Introduction    string `json:"introduction"`
	Conclusion      string `json:"conclusion"`
	CategoryName    string `json:"categoryName"`

	// TocItems overrides the table of contents. When nil, one entry per
	// section is derived from Sections.
	TocItems []TocInput     `json:"tocItems"`
	Sections []SectionInput `json:"sections"`
	Faqs     []FaqInput     `json:"faqs"`
	Images   []ImageInput   `json:"images"`
}

type TocInput struct {
	Title string `json:"title"`
}

type SectionInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type FaqInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ImageInput struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Validate checks required fields and limits and returns the first
// problem as a *ValidationError.
func (in *ArticleInput) Validate() error {
	required := []struct{ field, value string }{
		{"title", in.Title},
		{"metaTitle", in.MetaTitle},
		{"metaDescription", in.MetaDescription},
		{"introduction", in.Introduction},
		{"categoryName", in.CategoryName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field, "is required")
		}
	}

	if slug.Generate(in.Title) == "" {
		return invalid("title", "must contain at least one letter or digit")
	}

	switch {
	case tooLong(in.Title, maxTitleLen):
		return invalid("title", fmt.Sprintf("is too long (max %d characters)", maxTitleLen))
	case tooLong(in.MetaTitle, maxTitleLen):
		return invalid("metaTitle", fmt.Sprintf("is too long (max %d characters)", maxTitleLen))
	case tooLong(in.MetaDescription, maxMetaDescLen):
		return invalid("metaDescription", fmt.Sprintf("is too long (max %d characters)", maxMetaDescLen))
	case tooLong(in.Introduction, maxBodyLen):
		return invalid("introduction", "is too long")
	case tooLong(in.Conclusion, maxBodyLen):
		return invalid("conclusion", "is too long")
	}

	for i, t := range in.TocItems {
		if strings.TrimSpace(t.Title) == "" {
			return invalid(fmt.Sprintf("tocItems[%d].title", i), "is required")
		}
	}
	for i, s := range in.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return invalid(fmt.Sprintf("sections[%d].title", i), "is required")
		}
		if tooLong(s.Title, maxTitleLen) {
			return invalid(fmt.Sprintf("sections[%d].title", i), "is too long")
		}
		if tooLong(s.Content, maxBodyLen) {
			return invalid(fmt.Sprintf("sections[%d].content", i), "is too long")
		}
	}
	for i, f := range in.Faqs {
		if strings.TrimSpace(f.Question) == "" {
			return invalid(fmt.Sprintf("faqs[%d].question", i), "is required")
		}
		if strings.TrimSpace(f.Answer) == "" {
			return invalid(fmt.Sprintf("faqs[%d].answer", i), "is required")
		}
	}
	for i, img := range in.Images {
		if strings.TrimSpace(img.URL) == "" {
			return invalid(fmt.Sprintf("images[%d].url", i), "is required")
		}
	}
	return nil
}

// tocItems returns the explicit table of contents or one derived from the
// section titles.
func (in *ArticleInput) tocItems() []TocInput {
	if in.TocItems != nil {
		return in.TocItems
	}
	toc := make([]TocInput, len(in.Sections))
	for i, s := range in.Sections {
		toc[i] = TocInput{Title: s.Title}
	}
	return toc
}

// ListingInput is the full submitted state of a listing. Price and
// coordinates accept numbers or numeric strings; anything else is stored
// as NULL.
type ListingInput struct {
	Name         string               `json:"name"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	CategoryName string               `json:"categoryName"`
	City         string               `json:"city"`
	Hood         string               `json:"hood"`
	Latitude     models.OptionalFloat `json:"latitude"`
	Longitude    models.OptionalFloat `json:"longitude"`
	Phone        string               `json:"phone"`
	Instagram    string               `json:"instagram"`
	Facebook     string               `json:"facebook"`
	TikTok       string               `json:"tikTok"`
	Delivery     bool                 `json:"delivery"`
	Price        models.OptionalFloat `json:"price"`
	Promotion    string               `json:"promotion"`
	UserID       string               `json:"userId"`
	ImageURLs    []string             `json:"imageUrls"`
}

// Validate checks required fields, limits, the promotion tier and the
// owner id.
func (in *ListingInput) Validate() error {
	required := []struct{ field, value string }{
		{"name", in.Name},
		{"title", in.Title},
		{"description", in.Description},
		{"categoryName", in.CategoryName},
		{"city", in.City},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field, "is required")
		}
	}

	switch {
	case tooLong(in.Name, maxNameLen):
		return invalid("name", fmt.Sprintf("is too long (max %d characters)", maxNameLen))
	case tooLong(in.Title, maxTitleLen):
		return invalid("title", fmt.Sprintf("is too long (max %d characters)", maxTitleLen))
	case tooLong(in.Description, maxBodyLen):
		return invalid("description", "is too long")
	case tooLong(in.City, maxCityLen):
		return invalid("city", fmt.Sprintf("is too long (max %d characters)", maxCityLen))
	case tooLong(in.Hood, maxCityLen):
		return invalid("hood", fmt.Sprintf("is too long (max %d characters)", maxCityLen))
	case tooLong(in.Phone, maxPhoneLen):
		return invalid("phone", fmt.Sprintf("is too long (max %d characters)", maxPhoneLen))
	case tooLong(in.Instagram, maxContactLen), tooLong(in.Facebook, maxContactLen), tooLong(in.TikTok, maxContactLen):
		return invalid("social", fmt.Sprintf("is too long (max %d characters)", maxContactLen))
	}

	if _, ok := models.ParsePromotion(in.Promotion); !ok {
		return invalid("promotion", "must be empty, SILVER or GOLD")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return invalid("userId", "is required")
	}
	owner, err := uuid.Parse(strings.TrimSpace(in.UserID))
	if err != nil {
		return invalid("userId", "must be a valid id")
	}
	if owner == uuid.Nil {
		return invalid("userId", "is required")
	}
	return nil
}

// ownerID returns the parsed owner. Validate has already rejected
// malformed ids.
func (in *ListingInput) ownerID() uuid.UUID {
	id, _ := uuid.Parse(strings.TrimSpace(in.UserID))
	return id
}

// promotion returns the normalized tier. Validate has already rejected
// unknown values.
func (in *ListingInput) promotion() *string {
	p, _ := models.ParsePromotion(in.Promotion)
	if p == models.PromotionNone {
		return nil
	}
	s := string(p)
	return &s
}

// imageURLs drops blank entries so that order stays dense.
func (in *ListingInput) imageURLs() []string {
	urls := make([]string, 0, len(in.ImageURLs))
	for _, u := range in.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}
