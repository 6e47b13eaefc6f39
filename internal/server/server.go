package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shinyyama/herspace-backend/internal/handler"
	appmw "github.com/shinyyama/herspace-backend/internal/middleware"
	"github.com/shinyyama/herspace-backend/internal/reqctx"
	"github.com/shinyyama/herspace-backend/internal/service"
	"go.uber.org/zap"
)

type Deps struct {
	Registry            *service.SessionRegistry
	Gateway             handler.ContentGateway
	Log                 *zap.Logger
	AILimiter           *appmw.RateLimiter // nil disables the limit
	CORSAllowedSuffixes []string
	BodyLimit           string // e.g. "20M"; empty disables the limit
	SHA                 string
	BuildTime           string
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, rid string) {
			c.SetRequest(c.Request().WithContext(reqctx.WithRID(c.Request().Context(), rid)))
		},
	}))
	e.Use(requestLogger(d.Log))
	if d.BodyLimit != "" {
		e.Use(middleware.BodyLimit(d.BodyLimit))
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", appmw.SessionHeader},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(d.CORSAllowedSuffixes),
	}))

	sessionHandler := handler.NewSessionHandler(d.Registry, nil)
	rewardsHandler := handler.NewRewardsHandler()
	feedHandler := handler.NewFeedHandler()
	profileHandler := handler.NewProfileHandler(d.Gateway)
	shellHandler := handler.NewShellHandler()
	aiHandler := handler.NewAIHandler(d.Gateway)

	sessionMw := appmw.NewSessionMiddleware(d.Registry)
	auth := sessionMw.RequireSession

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    d.SHA,
			"build_time": d.BuildTime,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/session/login", sessionHandler.Login)
	api.GET("/session", sessionHandler.Get, auth)

	api.POST("/checkin", rewardsHandler.CheckIn, auth)
	api.POST("/tap", rewardsHandler.Tap, auth)
	api.GET("/store/items", rewardsHandler.Items)
	api.POST("/store/items/:id/redeem", rewardsHandler.Redeem, auth)

	api.GET("/feed", feedHandler.List, auth)
	api.POST("/feed", feedHandler.Create, auth)
	api.POST("/feed/:id/reactions", feedHandler.React, auth)
	api.POST("/feed/:id/comments", feedHandler.Comment, auth)
	api.POST("/feed/:id/tip", feedHandler.Tip, auth)
	api.GET("/feed/draft", feedHandler.Draft, auth)
	api.POST("/feed/draft/images", feedHandler.AddDraftImages, auth)
	api.DELETE("/feed/draft/images/:index", feedHandler.RemoveDraftImage, auth)
	api.PUT("/feed/draft/video", feedHandler.SetDraftVideo, auth)
	api.DELETE("/feed/draft/video", feedHandler.ClearDraftVideo, auth)
	api.POST("/feed/draft/publish", feedHandler.Publish, auth)

	api.GET("/profile", profileHandler.Get, auth)
	api.PATCH("/profile", profileHandler.Update, auth)
	api.POST("/profile/bind/:provider", profileHandler.Bind, auth)
	api.POST("/profile/avatar/generate", profileHandler.GenerateAvatar, auth)

	api.GET("/shell", shellHandler.Get, auth)
	api.PUT("/shell/tab", shellHandler.SetTab, auth)
	api.POST("/shell/tutorial/complete", shellHandler.CompleteTutorial, auth)

	aiMw := []echo.MiddlewareFunc{auth}
	if d.AILimiter != nil {
		aiMw = append(aiMw, d.AILimiter.Middleware)
	}
	aiGroup := api.Group("/ai", aiMw...)
	aiGroup.POST("/rewrite", aiHandler.Rewrite)
	aiGroup.POST("/first-aid", aiHandler.FirstAid)
	aiGroup.GET("/affirmation", aiHandler.Affirmation)
	aiGroup.POST("/avatar", aiHandler.Avatar)

	return &Server{e: e, log: d.Log}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("rid", v.RequestID),
			}
			if sid := reqctx.SessionID(c.Request().Context()); sid != "" {
				fields = append(fields, zap.String("session", sid))
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// allowOrigin accepts localhost on any port plus hosts ending in one of the
// configured suffixes.
func allowOrigin(suffixes []string) func(origin string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		host := u.Hostname()
		for _, s := range suffixes {
			s = strings.TrimSpace(s)
			if s != "" && strings.HasSuffix(host, s) {
				return true, nil
			}
		}
		return false, nil
	}
}

const shutdownTimeout = 10 * time.Second

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", addr))
		errCh <- s.e.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down server")
	return s.Shutdown(shutdownCtx)
}
