package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/platform/logger"
	"github.com/planky/planky-api/internal/store"
)

// PostgresBookmarkStore implements the store.BookmarkStore interface using
// a PostgreSQL database as the storage backend.
type PostgresBookmarkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookmarkStore creates a new PostgreSQL implementation of the
// BookmarkStore interface. If logger is nil, a default logger will be used.
func NewPostgresBookmarkStore(db store.DBTX, logger *slog.Logger) *PostgresBookmarkStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookmarkStore{
		db:     db,
		logger: logger.With(slog.String("component", "bookmark_store")),
	}
}

// Ensure PostgresBookmarkStore implements store.BookmarkStore interface
var _ store.BookmarkStore = (*PostgresBookmarkStore)(nil)

const bookmarkColumns = `b.id, b.user_id, b.url, b.title, b.description, b.favicon_url,
	b.is_favorite, b.is_pinned, b.created_at, b.updated_at`

// bookmarkOrderColumns maps BookmarkListParams.OrderBy values to SQL
// columns. Anything not in this map falls back to created_at.
var bookmarkOrderColumns = map[string]string{
	store.BookmarkOrderCreatedAt: "b.created_at",
	store.BookmarkOrderUpdatedAt: "b.updated_at",
	store.BookmarkOrderTitle:     "b.title",
}

// Create implements store.BookmarkStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresBookmarkStore) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := bookmark.Validate(); err != nil {
		log.Warn("bookmark validation failed during create",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return err
	}

	query := `
		INSERT INTO bookmarks (id, user_id, url, title, description, favicon_url,
			is_favorite, is_pinned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		bookmark.ID,
		bookmark.UserID,
		bookmark.URL,
		bookmark.Title,
		nullString(bookmark.Description),
		nullString(bookmark.FaviconURL),
		bookmark.IsFavorite,
		bookmark.IsPinned,
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during bookmark creation",
				slog.String("bookmark_id", bookmark.ID.String()),
				slog.String("user_id", bookmark.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, bookmark.UserID)
		}
		log.Error("failed to create bookmark",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return MapError(err)
	}

	if bookmark.Tags == nil {
		bookmark.Tags = []domain.Tag{}
	}

	log.Info("bookmark created",
		slog.String("bookmark_id", bookmark.ID.String()),
		slog.String("user_id", bookmark.UserID.String()))
	return nil
}

// GetByID implements store.BookmarkStore.GetByID
// Returns store.ErrBookmarkNotFound if absent or owned by another user.
func (s *PostgresBookmarkStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks b WHERE b.id = $1 AND b.user_id = $2`

	bookmark, err := scanBookmark(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookmarkNotFound
		}
		return nil, MapError(err)
	}

	if err := s.loadTags(ctx, []*domain.Bookmark{bookmark}); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// List implements store.BookmarkStore.List
// It builds the filter dynamically from params and returns the requested
// page plus the total match count.
func (s *PostgresBookmarkStore) List(
	ctx context.Context,
	params store.BookmarkListParams,
) ([]*domain.Bookmark, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildBookmarkFilter(params)

	var total int64
	countQuery := `SELECT COUNT(*) FROM bookmarks b WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count bookmarks",
			slog.String("error", err.Error()),
			slog.String("user_id", params.UserID.String()))
		return nil, 0, MapError(err)
	}

	orderColumn, ok := bookmarkOrderColumns[params.OrderBy]
	if !ok {
		orderColumn = "b.created_at"
		if params.OrderBy == "" {
			// Default ordering is newest first.
			params.Descending = true
		}
	}
	direction := "ASC"
	if params.Descending {
		direction = "DESC"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM bookmarks b WHERE %s ORDER BY %s %s, b.id LIMIT $%d OFFSET $%d`,
		bookmarkColumns, where, orderColumn, direction, len(args)-1, len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list bookmarks",
			slog.String("error", err.Error()),
			slog.String("user_id", params.UserID.String()))
		return nil, 0, MapError(err)
	}
	defer closeRows(rows, log)

	bookmarks := []*domain.Bookmark{}
	for rows.Next() {
		bookmark, err := scanBookmarkRows(rows)
		if err != nil {
			log.Error("failed to scan bookmark row",
				slog.String("error", err.Error()))
			return nil, 0, MapError(err)
		}
		bookmarks = append(bookmarks, bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	if err := s.loadTags(ctx, bookmarks); err != nil {
		return nil, 0, err
	}

	return bookmarks, total, nil
}

// Update implements store.BookmarkStore.Update
// Returns store.ErrBookmarkNotFound if absent or owned by another user.
func (s *PostgresBookmarkStore) Update(ctx context.Context, bookmark *domain.Bookmark) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := bookmark.Validate(); err != nil {
		log.Warn("bookmark validation failed during update",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return err
	}

	query := `
		UPDATE bookmarks
		SET url = $1, title = $2, description = $3, favicon_url = $4,
			is_favorite = $5, is_pinned = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		bookmark.URL,
		bookmark.Title,
		nullString(bookmark.Description),
		nullString(bookmark.FaviconURL),
		bookmark.IsFavorite,
		bookmark.IsPinned,
		bookmark.UpdatedAt,
		bookmark.ID,
		bookmark.UserID,
	)
	if err != nil {
		log.Error("failed to update bookmark",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBookmarkNotFound)
}

// Delete implements store.BookmarkStore.Delete
// Tag associations are removed by ON DELETE CASCADE.
func (s *PostgresBookmarkStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete bookmark",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBookmarkNotFound); err != nil {
		return err
	}

	log.Info("bookmark deleted",
		slog.String("bookmark_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// AddTag implements store.BookmarkStore.AddTag
// Returns store.ErrBookmarkTagExists if the association already exists.
func (s *PostgresBookmarkStore) AddTag(ctx context.Context, bookmarkID, tagID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO bookmark_tags (bookmark_id, tag_id, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := s.db.ExecContext(ctx, query, bookmarkID, tagID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrBookmarkTagExists, err)
		}
		log.Error("failed to add tag to bookmark",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmarkID.String()),
			slog.String("tag_id", tagID.String()))
		return MapError(err)
	}

	return nil
}

// RemoveTag implements store.BookmarkStore.RemoveTag
// Returns store.ErrBookmarkTagNotFound if the bookmark does not carry the tag.
func (s *PostgresBookmarkStore) RemoveTag(ctx context.Context, bookmarkID, tagID uuid.UUID) error {
	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM bookmark_tags WHERE bookmark_id = $1 AND tag_id = $2`,
		bookmarkID,
		tagID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBookmarkTagNotFound)
}

// ReplaceTags implements store.BookmarkStore.ReplaceTags
// MUST run within a transaction: the delete and the inserts are separate
// statements.
func (s *PostgresBookmarkStore) ReplaceTags(
	ctx context.Context,
	bookmarkID uuid.UUID,
	tagIDs []uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM bookmark_tags WHERE bookmark_id = $1`,
		bookmarkID,
	)
	if err != nil {
		log.Error("failed to clear bookmark tags",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmarkID.String()))
		return MapError(err)
	}

	for _, tagID := range tagIDs {
		if err := s.AddTag(ctx, bookmarkID, tagID); err != nil {
			return err
		}
	}

	return nil
}

// WithTx implements store.BookmarkStore.WithTx
func (s *PostgresBookmarkStore) WithTx(tx *sql.Tx) store.BookmarkStore {
	return &PostgresBookmarkStore{
		db:     tx,
		logger: s.logger,
	}
}

// buildBookmarkFilter assembles the WHERE clause and arguments for List.
func buildBookmarkFilter(params store.BookmarkListParams) (string, []any) {
	clauses := []string{"b.user_id = $1"}
	args := []any{params.UserID}

	add := func(format string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if params.IsFavorite != nil {
		add("b.is_favorite = $%d", *params.IsFavorite)
	}
	if params.IsPinned != nil {
		add("b.is_pinned = $%d", *params.IsPinned)
	}
	if params.CreatedAfter != nil {
		add("b.created_at >= $%d", *params.CreatedAfter)
	}
	if params.CreatedBefore != nil {
		add("b.created_at <= $%d", *params.CreatedBefore)
	}
	if params.TitleContains != "" {
		add("b.title ILIKE $%d", "%"+escapeLike(params.TitleContains)+"%")
	}
	if params.URLContains != "" {
		add("b.url ILIKE $%d", "%"+escapeLike(params.URLContains)+"%")
	}
	if params.Search != "" {
		pattern := "%" + escapeLike(params.Search) + "%"
		args = append(args, pattern)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(b.title ILIKE $%d OR b.description ILIKE $%d OR b.url ILIKE $%d)", n, n, n))
	}
	if params.TagID != nil {
		add(`EXISTS (
			SELECT 1 FROM bookmark_tags bt
			WHERE bt.bookmark_id = b.id AND bt.tag_id = $%d)`, *params.TagID)
	}
	if params.TagName != "" {
		add(`EXISTS (
			SELECT 1 FROM bookmark_tags bt
			JOIN tags t ON t.id = bt.tag_id
			WHERE bt.bookmark_id = b.id AND t.name = $%d)`,
			domain.NormalizeTagName(params.TagName))
	}

	return strings.Join(clauses, " AND "), args
}

// loadTags populates the Tags slice of each bookmark with a single query.
func (s *PostgresBookmarkStore) loadTags(ctx context.Context, bookmarks []*domain.Bookmark) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, b := range bookmarks {
		b.Tags = []domain.Tag{}
	}
	if len(bookmarks) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Bookmark, len(bookmarks))
	placeholders := make([]string, len(bookmarks))
	args := make([]any, len(bookmarks))
	for i, b := range bookmarks {
		byID[b.ID] = b
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = b.ID
	}

	query := fmt.Sprintf(`
		SELECT bt.bookmark_id, t.id, t.user_id, t.name, t.is_auto_generated, t.created_at
		FROM bookmark_tags bt
		JOIN tags t ON t.id = bt.tag_id
		WHERE bt.bookmark_id IN (%s)
		ORDER BY t.name
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load bookmark tags",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	defer closeRows(rows, log)

	for rows.Next() {
		var bookmarkID uuid.UUID
		var tag domain.Tag
		if err := rows.Scan(
			&bookmarkID,
			&tag.ID,
			&tag.UserID,
			&tag.Name,
			&tag.IsAutoGenerated,
			&tag.CreatedAt,
		); err != nil {
			return MapError(err)
		}
		if b, ok := byID[bookmarkID]; ok {
			b.Tags = append(b.Tags, tag)
		}
	}

	return MapError(rows.Err())
}

// scanBookmark scans a single bookmark row from QueryRowContext.
func scanBookmark(row *sql.Row) (*domain.Bookmark, error) {
	var b domain.Bookmark
	var description, faviconURL sql.NullString

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.URL,
		&b.Title,
		&description,
		&faviconURL,
		&b.IsFavorite,
		&b.IsPinned,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Description = description.String
	b.FaviconURL = faviconURL.String
	return &b, nil
}

// scanBookmarkRows scans a bookmark from a Rows cursor.
func scanBookmarkRows(rows *sql.Rows) (*domain.Bookmark, error) {
	var b domain.Bookmark
	var description, faviconURL sql.NullString

	err := rows.Scan(
		&b.ID,
		&b.UserID,
		&b.URL,
		&b.Title,
		&description,
		&faviconURL,
		&b.IsFavorite,
		&b.IsPinned,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Description = description.String
	b.FaviconURL = faviconURL.String
	return &b, nil
}

// escapeLike escapes LIKE metacharacters in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// closeRows closes a Rows cursor, logging any error.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
