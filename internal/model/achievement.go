package model

// AnonymousAuthor is shown instead of the username on anonymous posts and replies.
const AnonymousAuthor = "匿名队友"

type Achievement struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	Timestamp  int64         `json:"timestamp"`
	Flowers    uint          `json:"flowers"`
	Hugs       uint          `json:"hugs"`
	Tips       uint          `json:"tips"`
	AuthorName string        `json:"authorName"`
	Images     []string      `json:"images,omitempty"`
	Video      string        `json:"video,omitempty"`
	Comments   []TreeComment `json:"comments"`
}

type TreeComment struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
	AuthorName string `json:"authorName"`
}

type ReactionKind string

const (
	ReactionFlowers ReactionKind = "flowers"
	ReactionHugs    ReactionKind = "hugs"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionFlowers || k == ReactionHugs
}
