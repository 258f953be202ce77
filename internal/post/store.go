package post

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"backend-communityhub/internal/db"
	"backend-communityhub/internal/storage"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound    = errors.New("post not found")
	ErrUnknownKind = errors.New("unknown attachment kind")
)

// Store is the post store backed by the posts table. Reactions and
// comments live in JSONB arrays on the row.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

type NewPost struct {
	Title    string
	Link     string
	Category string
	Content  string
	UserID   string
	Image    *storage.Attachment
	Poster   *storage.Attachment
}

const selectColumns = `id, title, link, category, content, user_id, likes, dislikes, comments,
		image_type IS NOT NULL, poster_type IS NOT NULL, created_at`

func (s *Store) Create(ctx context.Context, in NewPost) (Post, error) {
	p := Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Link:      in.Link,
		Category:  in.Category,
		Content:   in.Content,
		UserID:    in.UserID,
		Likes:     []Reaction{},
		Dislikes:  []Reaction{},
		Comments:  []Comment{},
		HasImage:  in.Image != nil,
		HasPoster: in.Poster != nil,
	}
	imageData, imageType := storage.Columns(in.Image)
	posterData, posterType := storage.Columns(in.Poster)

	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, title, link, category, content, user_id, image_data, image_type, poster_data, poster_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, p.ID, p.Title, nullable(p.Link), p.Category, p.Content, p.UserID, imageData, imageType, posterData, posterType)
	if err := row.Scan(&p.CreatedAt); err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// Find returns the posts matching f, newest first.
func (s *Store) Find(ctx context.Context, f Filter) ([]Post, error) {
	var (
		conds []string
		args  []any
	)
	if f.TitleContains != "" {
		args = append(args, f.TitleContains)
		conds = append(conds, "strpos(lower(title), lower($"+strconv.Itoa(len(args))+")) > 0")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, "category = $"+strconv.Itoa(len(args)))
	}

	sql := "SELECT " + selectColumns + " FROM posts"
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY created_at DESC"

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return posts, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, "SELECT "+selectColumns+" FROM posts WHERE id = $1", id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

// Attachment returns the stored blob of the given kind, nil when the post
// has none.
func (s *Store) Attachment(ctx context.Context, id string, kind Kind) (*storage.Attachment, error) {
	var sql string
	switch kind {
	case KindImage:
		sql = `SELECT image_data, image_type FROM posts WHERE id = $1`
	case KindPoster:
		sql = `SELECT poster_data, poster_type FROM posts WHERE id = $1`
	default:
		return nil, ErrUnknownKind
	}

	var data []byte
	var contentType *string
	if err := s.db.QueryRow(ctx, sql, id).Scan(&data, &contentType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return storage.FromColumns(data, contentType), nil
}

func scanPost(row pgx.Row) (Post, error) {
	var (
		p                         Post
		link                      *string
		likes, dislikes, comments []byte
	)
	if err := row.Scan(&p.ID, &p.Title, &link, &p.Category, &p.Content, &p.UserID,
		&likes, &dislikes, &comments, &p.HasImage, &p.HasPoster, &p.CreatedAt); err != nil {
		return Post{}, fmt.Errorf("scan post: %w", err)
	}
	if link != nil {
		p.Link = *link
	}
	if err := decodeList(likes, &p.Likes); err != nil {
		return Post{}, fmt.Errorf("decode likes of %s: %w", p.ID, err)
	}
	if err := decodeList(dislikes, &p.Dislikes); err != nil {
		return Post{}, fmt.Errorf("decode dislikes of %s: %w", p.ID, err)
	}
	if err := decodeList(comments, &p.Comments); err != nil {
		return Post{}, fmt.Errorf("decode comments of %s: %w", p.ID, err)
	}
	return p, nil
}

func decodeList[T any](raw []byte, dst *[]T) error {
	*dst = []T{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
