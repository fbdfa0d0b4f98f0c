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

// PostgresTagStore implements the store.TagStore interface using a
// PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the
// TagStore interface. If logger is nil, a default logger will be used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore interface
var _ store.TagStore = (*PostgresTagStore)(nil)

const tagColumns = `t.id, t.user_id, t.name, t.is_auto_generated, t.created_at`

// tagOrderColumns maps TagListParams.OrderBy values to SQL expressions.
// bookmark_count refers to the aggregate computed by the list query.
var tagOrderColumns = map[string]string{
	store.TagOrderName:          "t.name",
	store.TagOrderCreatedAt:     "t.created_at",
	store.TagOrderBookmarkCount: "bookmark_count",
}

// Create implements store.TagStore.Create
// Returns store.ErrTagNameExists on a per-user duplicate name.
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during create",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return err
	}

	query := `
		INSERT INTO tags (id, user_id, name, is_auto_generated, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		tag.ID,
		tag.UserID,
		tag.Name,
		tag.IsAutoGenerated,
		tag.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrTagNameExists, err)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, tag.UserID)
		}
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapError(err)
	}

	log.Info("tag created",
		slog.String("tag_id", tag.ID.String()),
		slog.String("user_id", tag.UserID.String()))
	return nil
}

// GetByID implements store.TagStore.GetByID
// Returns store.ErrTagNotFound if absent or owned by another user.
func (s *PostgresTagStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags t WHERE t.id = $1 AND t.user_id = $2`
	return scanTag(s.db.QueryRowContext(ctx, query, id, userID))
}

// GetByName implements store.TagStore.GetByName
// The lookup is by normalized name; callers may pass raw input.
func (s *PostgresTagStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags t WHERE t.user_id = $1 AND t.name = $2`
	return scanTag(s.db.QueryRowContext(ctx, query, userID, domain.NormalizeTagName(name)))
}

// GetByIDs implements store.TagStore.GetByIDs
// The result holds only the ids that exist and belong to userID.
func (s *PostgresTagStore) GetByIDs(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) ([]*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM tags t WHERE t.user_id = $1 AND t.id IN (%s) ORDER BY t.name`,
		tagColumns, strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to get tags by ids",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	tags := []*domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(
			&tag.ID,
			&tag.UserID,
			&tag.Name,
			&tag.IsAutoGenerated,
			&tag.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}

// List implements store.TagStore.List
// BookmarkCount is computed with a LEFT JOIN so unused tags appear with a
// count of zero.
func (s *PostgresTagStore) List(
	ctx context.Context,
	params store.TagListParams,
) ([]*store.TagWithCount, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	clauses := []string{"t.user_id = $1"}
	args := []any{params.UserID}

	if params.Search != "" {
		args = append(args, "%"+escapeLike(params.Search)+"%")
		clauses = append(clauses, fmt.Sprintf("t.name ILIKE $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	having := ""
	if params.UnusedOnly {
		having = "HAVING COUNT(bt.bookmark_id) = 0"
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM (
			SELECT t.id
			FROM tags t
			LEFT JOIN bookmark_tags bt ON bt.tag_id = t.id
			WHERE %s
			GROUP BY t.id
			%s
		) matched
	`, where, having)

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tags",
			slog.String("error", err.Error()),
			slog.String("user_id", params.UserID.String()))
		return nil, 0, MapError(err)
	}

	orderColumn, ok := tagOrderColumns[params.OrderBy]
	if !ok {
		orderColumn = "t.name"
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
	query := fmt.Sprintf(`
		SELECT %s, COUNT(bt.bookmark_id) AS bookmark_count
		FROM tags t
		LEFT JOIN bookmark_tags bt ON bt.tag_id = t.id
		WHERE %s
		GROUP BY t.id
		%s
		ORDER BY %s %s, t.name
		LIMIT $%d OFFSET $%d
	`, tagColumns, where, having, orderColumn, direction, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tags",
			slog.String("error", err.Error()),
			slog.String("user_id", params.UserID.String()))
		return nil, 0, MapError(err)
	}
	defer closeRows(rows, log)

	tags := []*store.TagWithCount{}
	for rows.Next() {
		var tag store.TagWithCount
		if err := rows.Scan(
			&tag.ID,
			&tag.UserID,
			&tag.Name,
			&tag.IsAutoGenerated,
			&tag.CreatedAt,
			&tag.BookmarkCount,
		); err != nil {
			return nil, 0, MapError(err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return tags, total, nil
}

// Update implements store.TagStore.Update
// Returns store.ErrTagNotFound if absent, store.ErrTagNameExists when the
// new name collides with another of the user's tags.
func (s *PostgresTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during update",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE tags SET name = $1 WHERE id = $2 AND user_id = $3`,
		tag.Name,
		tag.ID,
		tag.UserID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrTagNameExists, err)
		}
		log.Error("failed to update tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTagNotFound)
}

// Delete implements store.TagStore.Delete
// Bookmark associations are removed by ON DELETE CASCADE.
func (s *PostgresTagStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM tags WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTagNotFound); err != nil {
		return err
	}

	log.Info("tag deleted",
		slog.String("tag_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// CountBookmarks implements store.TagStore.CountBookmarks
func (s *PostgresTagStore) CountBookmarks(ctx context.Context, tagID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM bookmark_tags WHERE tag_id = $1`,
		tagID,
	).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// ReassignBookmarks implements store.TagStore.ReassignBookmarks
// Associations that would duplicate an existing target association are
// skipped rather than erroring.
func (s *PostgresTagStore) ReassignBookmarks(
	ctx context.Context,
	sourceTagID, targetTagID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO bookmark_tags (bookmark_id, tag_id, created_at)
		SELECT bt.bookmark_id, $1, NOW()
		FROM bookmark_tags bt
		WHERE bt.tag_id = $2
		  AND NOT EXISTS (
			SELECT 1 FROM bookmark_tags existing
			WHERE existing.bookmark_id = bt.bookmark_id
			  AND existing.tag_id = $1
		  )
	`
	result, err := s.db.ExecContext(ctx, query, targetTagID, sourceTagID)
	if err != nil {
		log.Error("failed to reassign bookmark tags",
			slog.String("error", err.Error()),
			slog.String("source_tag_id", sourceTagID.String()),
			slog.String("target_tag_id", targetTagID.String()))
		return 0, MapError(err)
	}

	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return moved, nil
}

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanTag scans a single tag row, mapping sql.ErrNoRows to
// store.ErrTagNotFound.
func scanTag(row *sql.Row) (*domain.Tag, error) {
	var tag domain.Tag

	err := row.Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.IsAutoGenerated,
		&tag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		return nil, MapError(err)
	}

	return &tag, nil
}
