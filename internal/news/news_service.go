package news

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/model"
	"github.com/UmidYul/21-IDUM/params"
)

var ErrNewsNotFound = errors.New("news not found")

var (
	slugStrip    = regexp.MustCompile(`[^\x{0400}-\x{04FF}a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	htmlTagStrip = regexp.MustCompile(`<[^>]*>`)
)

// PublicItem is a news article projected into one language for the
// public site.
type PublicItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Excerpt  string `json:"excerpt"`
	CoverURL string `json:"coverUrl,omitempty"`
	Slug     string `json:"slug"`
	Date     string `json:"date"`
}

type CreateNewsOptions struct {
	TitleRu  string
	TitleUz  string
	BodyRu   string
	BodyUz   string
	CoverURL string
	Status   string
}

type UpdateNewsOptions struct {
	TitleRu  string
	TitleUz  string
	BodyRu   string
	BodyUz   string
	CoverURL *string
	Status   string
}

type NewsService struct {
	db *store.DocumentStore
}

func NewNewsService(db *store.DocumentStore) *NewsService {
	return &NewsService{db: db}
}

// Slugify builds a URL slug from a title, keeping Cyrillic and Latin
// characters and suffixing a timestamp for uniqueness.
func Slugify(title string, now time.Time) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugSpaces.ReplaceAllString(slug, "-")
	if runes := []rune(slug); len(runes) > params.NewsSlugMaxLen {
		slug = string(runes[:params.NewsSlugMaxLen])
	}
	return fmt.Sprintf("%s-%d", slug, now.UnixMilli())
}

func project(item model.News, lang string) PublicItem {
	title, body := item.TitleRu, item.BodyRu
	if lang == "uz" {
		title, body = item.TitleUz, item.BodyUz
	}
	plain := htmlTagStrip.ReplaceAllString(body, "")
	excerpt := plain
	if runes := []rune(plain); len(runes) > 100 {
		excerpt = string(runes[:100]) + "..."
	}
	date := ""
	if item.PublishAt != nil {
		date = item.PublishAt.Format("02.01.2006")
	}
	return PublicItem{
		ID:       item.ID,
		Title:    title,
		Body:     body,
		Excerpt:  excerpt,
		CoverURL: item.CoverURL,
		Slug:     item.Slug,
		Date:     date,
	}
}

// ListPublished returns published articles projected into lang, newest
// publish date first, at most limit items.
func (s *NewsService) ListPublished(ctx context.Context, lang string, limit int) ([]PublicItem, error) {
	if lang != "uz" {
		lang = "ru"
	}
	if limit <= 0 {
		limit = params.NewsDefaultLimit
	}

	var published []model.News
	err := s.db.View(func(doc *model.Document) error {
		for _, item := range doc.News {
			if item.Published() {
				published = append(published, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(published, func(i, j int) bool {
		pi, pj := published[i].PublishAt, published[j].PublishAt
		if pi == nil || pj == nil {
			return pj == nil && pi != nil
		}
		return pi.After(*pj)
	})
	if len(published) > limit {
		published = published[:limit]
	}

	out := make([]PublicItem, 0, len(published))
	for _, item := range published {
		out = append(out, project(item, lang))
	}
	return out, nil
}

// GetPublished returns one published article projected into lang.
func (s *NewsService) GetPublished(ctx context.Context, id, lang string) (*PublicItem, error) {
	if lang != "uz" {
		lang = "ru"
	}
	var found *model.News
	err := s.db.View(func(doc *model.Document) error {
		for i := range doc.News {
			if doc.News[i].ID == id && doc.News[i].Published() {
				item := doc.News[i]
				found = &item
				return nil
			}
		}
		return ErrNewsNotFound
	})
	if err != nil {
		return nil, err
	}
	item := project(*found, lang)
	return &item, nil
}

// ListAll returns every article including drafts, newest created first.
func (s *NewsService) ListAll(ctx context.Context) ([]model.News, error) {
	var out []model.News
	err := s.db.View(func(doc *model.Document) error {
		out = append(out, doc.News...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *NewsService) Get(ctx context.Context, id string) (*model.News, error) {
	var found *model.News
	err := s.db.View(func(doc *model.Document) error {
		for i := range doc.News {
			if doc.News[i].ID == id {
				item := doc.News[i]
				found = &item
				return nil
			}
		}
		return ErrNewsNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *NewsService) Create(ctx context.Context, opts CreateNewsOptions, author model.Identity) (*model.News, error) {
	now := time.Now().UTC()

	titleUz := strings.TrimSpace(opts.TitleUz)
	if titleUz == "" {
		titleUz = strings.TrimSpace(opts.TitleRu)
	}
	bodyUz := strings.TrimSpace(opts.BodyUz)
	if bodyUz == "" {
		bodyUz = strings.TrimSpace(opts.BodyRu)
	}

	status := model.NewsStatusDraft
	var publishAt *time.Time
	if opts.Status == model.NewsStatusPublished {
		status = model.NewsStatusPublished
		publishAt = &now
	}

	item := model.News{
		ID:        model.GenerateID(),
		TitleRu:   strings.TrimSpace(opts.TitleRu),
		TitleUz:   titleUz,
		BodyRu:    strings.TrimSpace(opts.BodyRu),
		BodyUz:    bodyUz,
		CoverURL:  opts.CoverURL,
		Slug:      Slugify(opts.TitleRu, now),
		Status:    status,
		PublishAt: publishAt,
		CreatedBy: author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.db.Update(func(doc *model.Document) error {
		doc.News = append(doc.News, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) Update(ctx context.Context, id string, opts UpdateNewsOptions) (*model.News, error) {
	var updated model.News
	err := s.db.Update(func(doc *model.Document) error {
		for i := range doc.News {
			if doc.News[i].ID != id {
				continue
			}
			item := &doc.News[i]
			if opts.TitleRu != "" {
				item.TitleRu = strings.TrimSpace(opts.TitleRu)
			}
			if opts.TitleUz != "" {
				item.TitleUz = strings.TrimSpace(opts.TitleUz)
			}
			if opts.BodyRu != "" {
				item.BodyRu = strings.TrimSpace(opts.BodyRu)
			}
			if opts.BodyUz != "" {
				item.BodyUz = strings.TrimSpace(opts.BodyUz)
			}
			if opts.CoverURL != nil {
				item.CoverURL = *opts.CoverURL
			}
			if opts.Status != "" && opts.Status != item.Status {
				item.Status = opts.Status
				if opts.Status == model.NewsStatusPublished && item.PublishAt == nil {
					now := time.Now().UTC()
					item.PublishAt = &now
				}
			}
			item.UpdatedAt = time.Now().UTC()
			updated = *item
			return nil
		}
		return ErrNewsNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(doc *model.Document) error {
		for i := range doc.News {
			if doc.News[i].ID == id {
				doc.News = append(doc.News[:i], doc.News[i+1:]...)
				return nil
			}
		}
		return ErrNewsNotFound
	})
}
