package post

import "time"

type Reaction struct {
	UserID string `json:"userId"`
}

type Comment struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
}

// Post is a stored post without its binary attachments; HasImage and
// HasPoster say whether they exist.
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Link      string     `json:"link,omitempty"`
	Category  string     `json:"category"`
	Content   string     `json:"content"`
	UserID    string     `json:"user_id"`
	Likes     []Reaction `json:"likes"`
	Dislikes  []Reaction `json:"dislikes"`
	Comments  []Comment  `json:"comments"`
	HasImage  bool       `json:"has_image"`
	HasPoster bool       `json:"has_poster"`
	CreatedAt time.Time  `json:"created_at"`
}

// Filter narrows Find. Empty fields do not filter.
type Filter struct {
	TitleContains string
	Category      string
}

type Kind string

const (
	KindImage  Kind = "image"
	KindPoster Kind = "poster"
)
