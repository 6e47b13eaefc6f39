package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shinyyama/herspace-backend/internal/model"
)

const (
	MaxPostImages   = 9
	TipIncrement    = 10
	seedHelperName  = "系统小助手"
	seedSunsetImage = "https://images.unsplash.com/photo-1470252649358-96949c751ba8?auto=format&fit=crop&q=80&w=400"
)

// NewID returns a 9 character opaque id, unique enough for one feed.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// Feed is the in-memory tree hole of one session, newest post first. It is
// never persisted.
type Feed struct {
	posts []model.Achievement
	now   func() time.Time
	newID func() string
}

func NewFeed(now func() time.Time, newID func() string) *Feed {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = NewID
	}
	return &Feed{now: now, newID: newID}
}

// Seed replaces the feed with the two starter posts.
func (f *Feed) Seed(username string) {
	now := f.now()
	f.posts = []model.Achievement{
		{
			ID:         "1",
			Content:    "今天终于拒绝了那个不合理的周末加班请求。🥂",
			Timestamp:  now.Add(-time.Hour).UnixMilli(),
			Flowers:    12,
			Hugs:       5,
			Tips:       50,
			AuthorName: model.AnonymousAuthor,
			Comments: []model.TreeComment{{
				ID:         "c1",
				Content:    "做得好！姐妹牛逼 ✨",
				Timestamp:  now.Add(-30 * time.Minute).UnixMilli(),
				AuthorName: seedHelperName,
			}},
		},
		{
			ID:         "2",
			Content:    "下班路上的夕阳好美，感觉被治愈了。🌅",
			Timestamp:  now.Add(-2 * time.Hour).UnixMilli(),
			Flowers:    8,
			Hugs:       3,
			Tips:       20,
			AuthorName: username,
			Images:     []string{seedSunsetImage},
			Comments:   []model.TreeComment{},
		},
	}
}

type NewPost struct {
	Content string
	Images  []string
	Video   string
	Author  string
}

// Create prepends a post with zeroed counters. A blank post without media is
// rejected with ok=false. Images beyond the ninth are dropped.
func (f *Feed) Create(p NewPost) (model.Achievement, bool) {
	if strings.TrimSpace(p.Content) == "" && len(p.Images) == 0 && p.Video == "" {
		return model.Achievement{}, false
	}
	a := model.Achievement{
		ID:         f.newID(),
		Content:    p.Content,
		Timestamp:  f.now().UnixMilli(),
		AuthorName: p.Author,
		Video:      p.Video,
		Comments:   []model.TreeComment{},
	}
	if len(p.Images) > 0 {
		n := min(len(p.Images), MaxPostImages)
		a.Images = append([]string(nil), p.Images[:n]...)
	}
	f.posts = append([]model.Achievement{a}, f.posts...)
	return clonePost(a), true
}

func (f *Feed) React(id string, kind model.ReactionKind) bool {
	if !kind.Valid() {
		return false
	}
	p := f.find(id)
	if p == nil {
		return false
	}
	switch kind {
	case model.ReactionFlowers:
		p.Flowers++
	case model.ReactionHugs:
		p.Hugs++
	}
	return true
}

// Comment appends a reply. Blank content and unknown posts are rejected.
func (f *Feed) Comment(id, content, author string) (model.TreeComment, bool) {
	if strings.TrimSpace(content) == "" {
		return model.TreeComment{}, false
	}
	p := f.find(id)
	if p == nil {
		return model.TreeComment{}, false
	}
	c := model.TreeComment{
		ID:         f.newID(),
		Content:    content,
		Timestamp:  f.now().UnixMilli(),
		AuthorName: author,
	}
	p.Comments = append(p.Comments, c)
	return c, true
}

func (f *Feed) Tip(id string) bool {
	p := f.find(id)
	if p == nil {
		return false
	}
	p.Tips += TipIncrement
	return true
}

func (f *Feed) Has(id string) bool {
	return f.find(id) != nil
}

func (f *Feed) Find(id string) (model.Achievement, bool) {
	p := f.find(id)
	if p == nil {
		return model.Achievement{}, false
	}
	return clonePost(*p), true
}

// List returns a copy of the feed, newest first.
func (f *Feed) List() []model.Achievement {
	out := make([]model.Achievement, len(f.posts))
	for i, p := range f.posts {
		out[i] = clonePost(p)
	}
	return out
}

func (f *Feed) find(id string) *model.Achievement {
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i]
		}
	}
	return nil
}

func clonePost(a model.Achievement) model.Achievement {
	if a.Images != nil {
		a.Images = append([]string(nil), a.Images...)
	}
	a.Comments = append([]model.TreeComment{}, a.Comments...)
	return a
}
