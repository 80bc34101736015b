package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/blogdesk/internal/migrations"
	"github.com/studiowebux/blogdesk/internal/types"
)

// ErrNotFound is returned for an unknown post id
var ErrNotFound = errors.New("post not found")

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	Title   *string
	Author  *string
	Date    *string
	Content *string

	// SetAvatar distinguishes "avatar": null from an absent avatar
	SetAvatar bool
	Avatar    *string
}

// Empty reports whether the update carries no field
func (c Changes) Empty() bool {
	return c.Title == nil && c.Author == nil && c.Date == nil && c.Content == nil && !c.SetAvatar
}

// Store is the posts table of the mock backend
type Store struct {
	db      *sql.DB
	dialect migrations.Dialect
}

// Open connects to a SQLite file or a postgres:// DSN and migrates the posts table
func Open(dsn string) (*Store, error) {
	dialect := migrations.DialectFor(dsn)

	if dialect == migrations.SQLite && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open posts database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to posts database: %w", err)
	}
	if dialect == migrations.SQLite {
		// SQLite serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := migrations.Run(db, dialect, migrations.Posts); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

func (s *Store) Dialect() migrations.Dialect {
	return s.dialect
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) rebind(query string) string {
	return migrations.Rebind(s.dialect, query)
}

const postColumns = "id, title, author, avatar, date, content"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row scanner) (types.Post, error) {
	var (
		id     int64
		post   types.Post
		avatar sql.NullString
	)
	if err := row.Scan(&id, &post.Title, &post.Author, &avatar, &post.Date, &post.Content); err != nil {
		return types.Post{}, err
	}
	post.ID = types.ParseID(strconv.FormatInt(id, 10))
	if avatar.Valid {
		v := avatar.String
		post.Avatar = &v
	}
	return post, nil
}

// parseID rejects ids the table cannot hold, so they read as not found
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil
}

// List returns posts in insertion order, like a plain json-server collection
func (s *Store) List(ctx context.Context) ([]types.Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []types.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (types.Post, error) {
	n, ok := parseID(id)
	if !ok {
		return types.Post{}, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+postColumns+" FROM posts WHERE id = ?"), n)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Post{}, ErrNotFound
	}
	if err != nil {
		return types.Post{}, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return post, nil
}

// Create inserts a post and returns it with its assigned id
func (s *Store) Create(ctx context.Context, draft types.Draft) (types.Post, error) {
	var avatar sql.NullString
	if draft.Avatar != nil {
		avatar = sql.NullString{String: *draft.Avatar, Valid: true}
	}

	var id int64
	if s.dialect == migrations.Postgres {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO posts (title, author, avatar, date, content) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			draft.Title, draft.Author, avatar, draft.Date, draft.Content,
		).Scan(&id)
		if err != nil {
			return types.Post{}, fmt.Errorf("failed to create post: %w", err)
		}
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO posts (title, author, avatar, date, content) VALUES (?, ?, ?, ?, ?)`,
			draft.Title, draft.Author, avatar, draft.Date, draft.Content,
		)
		if err != nil {
			return types.Post{}, fmt.Errorf("failed to create post: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return types.Post{}, fmt.Errorf("failed to read post id: %w", err)
		}
	}

	return s.Get(ctx, strconv.FormatInt(id, 10))
}

// Patch merges the provided fields into an existing post
func (s *Store) Patch(ctx context.Context, id string, changes Changes) (types.Post, error) {
	n, ok := parseID(id)
	if !ok {
		return types.Post{}, ErrNotFound
	}

	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if changes.Title != nil {
		add("title", *changes.Title)
	}
	if changes.Author != nil {
		add("author", *changes.Author)
	}
	if changes.Date != nil {
		add("date", *changes.Date)
	}
	if changes.Content != nil {
		add("content", *changes.Content)
	}
	if changes.SetAvatar {
		var avatar sql.NullString
		if changes.Avatar != nil {
			avatar = sql.NullString{String: *changes.Avatar, Valid: true}
		}
		add("avatar", avatar)
	}

	if len(sets) == 0 {
		return s.Get(ctx, id)
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, n)
	query := s.rebind("UPDATE posts SET " + strings.Join(sets, ", ") + " WHERE id = ?")

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return types.Post{}, fmt.Errorf("failed to update post %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return types.Post{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	n, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM posts WHERE id = ?"), n)
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// Seed inserts drafts in one transaction when the table is empty.
// It returns the number of posts inserted.
func (s *Store) Seed(ctx context.Context, drafts []types.Draft) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || len(drafts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO posts (title, author, avatar, date, content) VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, d := range drafts {
		var avatar sql.NullString
		if d.Avatar != nil {
			avatar = sql.NullString{String: *d.Avatar, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, d.Title, d.Author, avatar, d.Date, d.Content); err != nil {
			return 0, fmt.Errorf("failed to seed post %q: %w", d.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return len(drafts), nil
}

// Reset removes every post
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return fmt.Errorf("failed to reset posts: %w", err)
	}
	return nil
}
