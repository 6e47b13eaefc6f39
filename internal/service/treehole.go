package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinyyama/herspace-backend/internal/media"
	"github.com/shinyyama/herspace-backend/internal/metrics"
	"github.com/shinyyama/herspace-backend/internal/model"
)

// TreeHole ties feed actions to their point rewards.
type TreeHole struct {
	ns     string
	feed   *Feed
	draft  *Draft
	users  *UserStore
	ledger RewardLedger
	media  media.Store
}

func NewTreeHole(ns string, feed *Feed, draft *Draft, users *UserStore, ledger RewardLedger, store media.Store) *TreeHole {
	if store == nil {
		store = media.InlineStore{}
	}
	return &TreeHole{ns: ns, feed: feed, draft: draft, users: users, ledger: ledger, media: store}
}

type PostInput struct {
	Content   string
	Images    []string
	Video     string
	Anonymous bool
}

func (t *TreeHole) author(anonymous bool) string {
	if anonymous {
		return model.AnonymousAuthor
	}
	return t.users.User().Username
}

// Post publishes in one shot, with media given inline.
func (t *TreeHole) Post(ctx context.Context, in PostInput) (Outcome, error) {
	if len(in.Images) > MaxPostImages {
		in.Images = in.Images[:MaxPostImages]
	}
	return t.create(ctx, in)
}

// Publish posts the text together with the staged draft media and clears
// the draft on success.
func (t *TreeHole) Publish(ctx context.Context, content string, anonymous bool) (Outcome, error) {
	v := t.draft.View()
	out, err := t.create(ctx, PostInput{Content: content, Images: v.Images, Video: v.Video, Anonymous: anonymous})
	if err != nil || !out.Applied {
		return out, err
	}
	t.draft.Reset()
	return out, nil
}

func (t *TreeHole) create(ctx context.Context, in PostInput) (Outcome, error) {
	if strings.TrimSpace(in.Content) == "" && len(in.Images) == 0 && in.Video == "" {
		return Outcome{User: t.users.User()}, nil
	}
	images := make([]string, 0, len(in.Images))
	for _, ref := range in.Images {
		stored, err := t.media.Put(ctx, t.ns, ref)
		if err != nil {
			return Outcome{}, fmt.Errorf("store image: %w", err)
		}
		images = append(images, stored)
	}
	video := in.Video
	if video != "" {
		stored, err := t.media.Put(ctx, t.ns, video)
		if err != nil {
			return Outcome{}, fmt.Errorf("store video: %w", err)
		}
		video = stored
	}

	u, err := t.ledger.Apply(ctx, ReasonPost, PostReward)
	if err != nil {
		return Outcome{}, err
	}
	post, _ := t.feed.Create(NewPost{Content: in.Content, Images: images, Video: video, Author: t.author(in.Anonymous)})
	metrics.FeedPosts.Inc()
	return Outcome{Applied: true, User: u, Post: &post}, nil
}

// Feed actions are validated first and the points are persisted before the
// feed changes, so a failed write leaves both untouched.

// React is not deduplicated: every call adds one and earns one point.
func (t *TreeHole) React(ctx context.Context, postID string, kind model.ReactionKind) (Outcome, error) {
	if !kind.Valid() || !t.feed.Has(postID) {
		return Outcome{User: t.users.User()}, nil
	}
	u, err := t.ledger.Apply(ctx, ReasonReact, ReactReward)
	if err != nil {
		return Outcome{}, err
	}
	t.feed.React(postID, kind)
	return t.withPost(Outcome{Applied: true, User: u}, postID), nil
}

func (t *TreeHole) Comment(ctx context.Context, postID, content string, anonymous bool) (Outcome, error) {
	if strings.TrimSpace(content) == "" || !t.feed.Has(postID) {
		return Outcome{User: t.users.User()}, nil
	}
	u, err := t.ledger.Apply(ctx, ReasonComment, CommentReward)
	if err != nil {
		return Outcome{}, err
	}
	c, _ := t.feed.Comment(postID, content, t.author(anonymous))
	return t.withPost(Outcome{Applied: true, User: u, Comment: &c}, postID), nil
}

// Tip moves points out of the tipper's balance into the post's counter. The
// author is not credited.
func (t *TreeHole) Tip(ctx context.Context, postID string) (Outcome, error) {
	if !t.ledger.CanAfford(TipCost) {
		return Outcome{Notice: NoticeInsufficient, User: t.users.User()}, nil
	}
	if !t.feed.Has(postID) {
		return Outcome{User: t.users.User()}, nil
	}
	u, err := t.ledger.Apply(ctx, ReasonTip, -TipCost)
	if err != nil {
		return Outcome{}, err
	}
	t.feed.Tip(postID)
	return t.withPost(Outcome{Applied: true, User: u}, postID), nil
}

func (t *TreeHole) withPost(out Outcome, postID string) Outcome {
	if p, ok := t.feed.Find(postID); ok {
		out.Post = &p
	}
	return out
}
