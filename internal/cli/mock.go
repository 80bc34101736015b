package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/config"
	"github.com/studiowebux/blogdesk/internal/mock"
	"github.com/studiowebux/blogdesk/internal/store"
)

// MockOptions configure the local posts backend
type MockOptions struct {
	SeedFile  string // yaml/json; empty uses the sample posts
	WriteSeed string // write the sample seed file and exit
	Host      string
	Port      int
	DSN       string // SQLite path or postgres:// URL
	Summary   bool   // print the request log on shutdown
	Out       io.Writer
}

// Mock serves the posts backend until ctx is cancelled
func Mock(ctx context.Context, opts MockOptions, logger zerolog.Logger) error {
	if opts.WriteSeed != "" {
		if err := mock.SaveConfig(mock.DefaultConfig(), opts.WriteSeed); err != nil {
			return err
		}
		logger.Info().Str("path", opts.WriteSeed).Msg("sample seed written")
		return nil
	}

	cfg := mock.DefaultConfig()
	if opts.SeedFile != "" {
		loaded, err := mock.LoadConfig(opts.SeedFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	if opts.Summary {
		cfg.Logging = true
	}

	dsn := opts.DSN
	if dsn == "" {
		dsn = filepath.Join(config.ConfigDir, "mock.db")
	}
	st, err := store.Open(dsn)
	if err != nil {
		return err
	}
	defer st.Close()

	server := mock.NewServer(cfg, st, logger)
	if _, err := server.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}
	if err := server.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down mock posts backend")
	if err := server.Stop(); err != nil {
		return err
	}

	if cfg.Logging && opts.Out != nil {
		printRequestLog(opts.Out, server.GetLogs())
	}
	return nil
}
