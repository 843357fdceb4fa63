package model

import "time"

const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
)

// News is a bilingual news article. The Uzbek fields fall back to the
// Russian ones when left empty on create.
type News struct {
	ID        string     `json:"id"`
	TitleRu   string     `json:"title_ru"`
	TitleUz   string     `json:"title_uz"`
	BodyRu    string     `json:"body_ru"`
	BodyUz    string     `json:"body_uz"`
	CoverURL  string     `json:"coverUrl,omitempty"`
	Slug      string     `json:"slug"`
	Status    string     `json:"status"`
	PublishAt *time.Time `json:"publishAt"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (n *News) Published() bool {
	return n.Status == NewsStatusPublished
}
