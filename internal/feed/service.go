package feed

import (
	"context"
	"sort"

	"backend-communityhub/internal/post"
	"backend-communityhub/internal/user"
)

type PostFinder interface {
	Find(ctx context.Context, f post.Filter) ([]post.Post, error)
	FindByID(ctx context.Context, id string) (post.Post, error)
}

type ProfileLoader interface {
	Profiles(ctx context.Context, ids []string) (map[string]user.Profile, error)
}

// Service is the read side of the board: it filters, orders, joins and
// partitions posts for display.
type Service struct {
	posts PostFinder
	users ProfileLoader
}

func NewService(posts PostFinder, users ProfileLoader) *Service {
	return &Service{posts: posts, users: users}
}

// Query returns the categorized feed for f. On any store failure it
// returns an empty, non-nil feed together with the error.
func (s *Service) Query(ctx context.Context, f Filter) (CategorizedFeed, error) {
	posts, err := s.posts.Find(ctx, toPostFilter(f))
	if err != nil {
		return CategorizedFeed{}, err
	}
	entries, err := s.enrich(ctx, posts)
	if err != nil {
		return CategorizedFeed{}, err
	}
	return Partition(entries), nil
}

// Detail loads one post with the same joins as the feed.
func (s *Service) Detail(ctx context.Context, id string) (Entry, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	entries, err := s.enrich(ctx, []post.Post{p})
	if err != nil {
		return Entry{}, err
	}
	return entries[0], nil
}

func toPostFilter(f Filter) post.Filter {
	pf := post.Filter{TitleContains: f.Search}
	if f.Category != AllCategories {
		pf.Category = f.Category
	}
	return pf
}

// enrich resolves owners and comment authors in one profile lookup.
// References that do not resolve become user.Unknown.
func (s *Service) enrich(ctx context.Context, posts []post.Post) ([]Entry, error) {
	seen := map[string]struct{}{}
	var ids []string
	addID := func(id string) {
		if _, ok := seen[id]; ok || id == "" {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, p := range posts {
		addID(p.UserID)
		for _, c := range p.Comments {
			addID(c.UserID)
		}
	}

	profiles, err := s.users.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	resolve := func(id string) user.Profile {
		if p, ok := profiles[id]; ok {
			return p
		}
		return user.Unknown(id)
	}

	entries := make([]Entry, 0, len(posts))
	for _, p := range posts {
		comments := make([]CommentView, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, CommentView{Text: c.Text, Author: resolve(c.UserID)})
		}
		entries = append(entries, Entry{
			ID:        p.ID,
			Title:     p.Title,
			Link:      p.Link,
			Category:  p.Category,
			Content:   p.Content,
			Author:    resolve(p.UserID),
			Likes:     len(p.Likes),
			Dislikes:  len(p.Dislikes),
			Comments:  comments,
			HasImage:  p.HasImage,
			HasPoster: p.HasPoster,
			CreatedAt: p.CreatedAt,
		})
	}
	return entries, nil
}

// Partition groups entries by category, newest first within each group.
// The store already orders by time; sorting again keeps the guarantee
// independent of the store.
func Partition(entries []Entry) CategorizedFeed {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	feed := CategorizedFeed{}
	for _, e := range sorted {
		feed[e.Category] = append(feed[e.Category], e)
	}
	return feed
}
