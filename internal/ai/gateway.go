package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shinyyama/herspace-backend/internal/metrics"
	"github.com/shinyyama/herspace-backend/internal/reqctx"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultAuthor = "HerSpace"

// Static answers used whenever the model fails or returns nothing.
const (
	RewriteEmptyFallback  = "翻译官开小差了，请再试一次。✨"
	RewriteErrorFallback  = "在忙着写周报，稍后再帮你翻译。⌛"
	FirstAidEmptyFallback = "我在这里陪着你，深呼吸一下。🕊️"
	FirstAidErrorFallback = "深呼吸，我是你的坚强后盾。🕯️"
)

var (
	AffirmationEmptyFallback = Affirmation{Text: "你已经足够优秀，无需证明给任何人看。✨", Author: defaultAuthor}
	AffirmationErrorFallback = Affirmation{Text: "今天的你，依然是无可替代的星辰。💎", Author: defaultAuthor}
)

var errNoClient = errors.New("gemini client is not configured")

// Generator is the slice of the genai SDK the gateway uses; *genai.Models
// satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GatewayConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	Timeout    time.Duration // zero leaves the deadline to the caller's context
}

// Gateway wraps the remote model. None of its methods return errors: every
// failure is mapped to a static fallback. One attempt per call, no retry.
type Gateway struct {
	gen        Generator
	textModel  string
	imageModel string
	timeout    time.Duration
	log        *zap.Logger
}

// NewGateway builds a gateway backed by the Gemini API. When the client
// cannot be created the gateway still works and answers with fallbacks.
func NewGateway(ctx context.Context, cfg GatewayConfig, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	var gen Generator
	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; generative features will return fallbacks")
	} else {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Error("gemini client init failed", zap.Error(err))
		} else {
			gen = client.Models
		}
	}
	return NewGatewayWithGenerator(gen, cfg, log)
}

func NewGatewayWithGenerator(gen Generator, cfg GatewayConfig, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-3-flash-preview"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gemini-2.5-flash-image"
	}
	return &Gateway{
		gen:        gen,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		timeout:    cfg.Timeout,
		log:        log,
	}
}

// Rewrite turns a workplace complaint into an empathetic reply plus three
// "corporate speak" variants.
func (g *Gateway) Rewrite(ctx context.Context, complaint string) string {
	temp := float32(0.8)
	text, err := g.generateText(ctx, "rewrite", g.textModel, BuildRewritePrompt(complaint), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return RewriteErrorFallback
	}
	if text == "" {
		return RewriteEmptyFallback
	}
	return text
}

// FirstAid returns a three-step supportive message.
func (g *Gateway) FirstAid(ctx context.Context, situation string) string {
	temp := float32(0.7)
	text, err := g.generateText(ctx, "first_aid", g.textModel, BuildFirstAidPrompt(situation), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return FirstAidErrorFallback
	}
	if text == "" {
		return FirstAidEmptyFallback
	}
	return text
}

// DailyAffirmation always returns a quote with non-empty text.
func (g *Gateway) DailyAffirmation(ctx context.Context) Affirmation {
	text, err := g.generateText(ctx, "affirmation", g.textModel, affirmationPrompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text":   {Type: genai.TypeString},
				"author": {Type: genai.TypeString},
			},
		},
	})
	if err != nil {
		return AffirmationErrorFallback
	}
	if text == "" {
		return AffirmationEmptyFallback
	}
	a, err := ParseAffirmation(text)
	if err != nil {
		g.log.Warn("affirmation parse failed", zap.String("rid", reqctx.RID(ctx)), zap.Error(err))
		metrics.GatewayCalls.WithLabelValues("affirmation", "fallback").Inc()
		return AffirmationErrorFallback
	}
	return a
}

// Avatar generates a profile picture as a data URL. Unlike the text
// operations it reports failure with nil.
func (g *Gateway) Avatar(ctx context.Context, jobTitle, mood string) *string {
	res, err := g.generate(ctx, "avatar", g.imageModel, BuildAvatarPrompt(jobTitle, mood), nil)
	if err != nil {
		return nil
	}
	url, ok := FirstInlineImage(res)
	if !ok {
		g.log.Warn("avatar response had no inline image", zap.String("rid", reqctx.RID(ctx)))
		metrics.GatewayCalls.WithLabelValues("avatar", "fallback").Inc()
		return nil
	}
	return &url
}

func (g *Gateway) generateText(ctx context.Context, op, model, prompt string, config *genai.GenerateContentConfig) (string, error) {
	res, err := g.generate(ctx, op, model, prompt, config)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		metrics.GatewayCalls.WithLabelValues(op, "fallback").Inc()
	}
	return text, nil
}

func (g *Gateway) generate(ctx context.Context, op, model, prompt string, config *genai.GenerateContentConfig) (res *genai.GenerateContentResponse, err error) {
	rid := reqctx.RID(ctx)
	sid := reqctx.SessionID(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("gemini panic: %v", r)
		}
		if err != nil {
			g.log.Warn("gemini call failed",
				zap.String("stage", "gemini_fail"),
				zap.String("op", op),
				zap.String("rid", rid),
				zap.String("session", sid),
				zap.String("model", model),
				zap.Error(err))
			metrics.GatewayCalls.WithLabelValues(op, "fallback").Inc()
		}
	}()

	if g.gen == nil {
		return nil, errNoClient
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.log.Debug("gemini call", zap.String("stage", "gemini_start"), zap.String("op", op), zap.String("rid", rid), zap.String("model", model))
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}
	res, err = g.gen.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if res == nil {
		return nil, errors.New("gemini returned no response")
	}
	g.log.Info("gemini call done",
		zap.String("stage", "gemini_done"),
		zap.String("op", op),
		zap.String("rid", rid),
		zap.String("model", model),
		zap.Int64("genMs", time.Since(start).Milliseconds()))
	metrics.GatewayCalls.WithLabelValues(op, "ok").Inc()
	return res, nil
}
