package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/store"
	"github.com/studiowebux/blogdesk/internal/types"
)

const maxLogs = 1000

// Server is a json-server style posts backend
type Server struct {
	config     *Config
	store      *store.Store
	echo       *echo.Echo
	httpServer *http.Server
	addr       string
	logger     zerolog.Logger
	logs       []RequestLog
	logsMutex  sync.RWMutex
	now        func() time.Time
}

// NewServer creates a new mock server over st
func NewServer(config *Config, st *store.Store, logger zerolog.Logger) *Server {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}

	s := &Server{
		config: config,
		store:  st,
		logger: logger,
		logs:   make([]RequestLog, 0),
		now:    time.Now,
	}
	s.echo = s.routes()
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.logMiddleware)
	if s.config.Delay > 0 {
		e.Use(s.delayMiddleware)
	}

	e.GET("/posts", s.listPosts)
	e.POST("/posts", s.createPost)
	e.GET("/posts/:id", s.getPost)
	e.PATCH("/posts/:id", s.patchPost)
	e.DELETE("/posts/:id", s.deletePost)

	return e
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Seed loads the configured posts into an empty store
func (s *Server) Seed(ctx context.Context) (int, error) {
	n, err := s.store.Seed(ctx, s.config.Drafts(s.now()))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int("posts", n).Msg("seeded posts")
	}
	return n, nil
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.addr = ln.Addr().String()

	s.httpServer = &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("mock server error")
		}
	}()

	s.logger.Info().Str("address", s.GetAddress()).Str("dialect", s.store.Dialect().String()).Msg("mock posts backend listening")
	return nil
}

// Stop stops the mock server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the server base URL
func (s *Server) GetAddress() string {
	if s.addr != "" {
		return "http://" + s.addr
	}
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

func (s *Server) listPosts(c echo.Context) error {
	posts, err := s.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (s *Server) getPost(c echo.Context) error {
	post, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (s *Server) createPost(c echo.Context) error {
	var draft types.Draft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post body")
	}
	if draft.Date == "" {
		draft.Date = types.Today(s.now())
	}

	post, err := s.store.Create(c.Request().Context(), draft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

func (s *Server) patchPost(c echo.Context) error {
	changes, err := decodeChanges(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := s.store.Patch(c.Request().Context(), c.Param("id"), changes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (s *Server) deletePost(c echo.Context) error {
	if err := s.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, struct{}{})
}

// decodeChanges keeps only the post fields present in the body; id is ignored
func decodeChanges(body io.Reader) (store.Changes, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return store.Changes{}, fmt.Errorf("invalid patch body: %w", err)
	}

	var changes store.Changes
	text := func(key string, dst **string) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("field %s must be a string", key)
		}
		*dst = &s
		return nil
	}

	for key, dst := range map[string]**string{
		"title":   &changes.Title,
		"author":  &changes.Author,
		"date":    &changes.Date,
		"content": &changes.Content,
	} {
		if err := text(key, dst); err != nil {
			return store.Changes{}, err
		}
	}

	if v, ok := raw["avatar"]; ok {
		changes.SetAvatar = true
		if !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			if err := text("avatar", &changes.Avatar); err != nil {
				return store.Changes{}, err
			}
		}
	}

	return changes, nil
}

// handleError renders failures like json-server: an empty object with the status
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &httpErr):
		status = httpErr.Code
	default:
		s.logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(status)
		return
	}
	c.JSON(status, struct{}{})
}

func (s *Server) delayMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		time.Sleep(time.Duration(s.config.Delay) * time.Millisecond)
		return next(c)
	}
}

func (s *Server) logMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := s.now()
		req := c.Request()

		var requestBody []byte
		if req.Body != nil {
			requestBody, _ = io.ReadAll(req.Body)
			req.Body.Close()
			req.Body = io.NopCloser(bytes.NewReader(requestBody))
		}

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		entry := RequestLog{
			Timestamp: start,
			RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
			Method:    req.Method,
			Path:      req.URL.Path,
			Body:      string(requestBody),
			Status:    c.Response().Status,
			Duration:  s.now().Sub(start),
		}

		s.logger.Info().
			Str("request_id", entry.RequestID).
			Str("method", entry.Method).
			Str("path", entry.Path).
			Int("status", entry.Status).
			Dur("duration", entry.Duration).
			Msg("request")

		if s.config.Logging {
			s.logRequest(entry)
		}
		return nil
	}
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}
}

// GetLogs returns a copy of the logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}
