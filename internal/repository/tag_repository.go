package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/models"
	"storefront/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type TagRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewTagRepository(db *pgxpool.Pool) *TagRepo {
	return &TagRepo{
		db: db,
		sb: newStatementBuilder(),
	}
}

var tagColumns = []string{"t.id", "t.name", "t.slug", "t.color", "t.created_at"}

func (r *TagRepo) CreateTag(ctx context.Context, tag models.Tag) (uuid.UUID, error) {
	const op = "repository.tag_repository.CreateTag"

	query, args, err := r.sb.Insert("tags").
		Columns("name", "slug", "color").
		Values(tag.Name, tag.Slug, tag.Color).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrTagExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *TagRepo) UpdateTag(ctx context.Context, tag models.Tag) error {
	const op = "repository.tag_repository.UpdateTag"

	query, args, err := r.sb.Update("tags").
		Set("name", tag.Name).
		Set("slug", tag.Slug).
		Set("color", tag.Color).
		Where(sq.Eq{"id": tag.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrTagExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *TagRepo) DeleteTag(ctx context.Context, tagID uuid.UUID) error {
	const op = "repository.tag_repository.DeleteTag"

	query, args, err := r.sb.Delete("tags").Where(sq.Eq{"id": tagID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *TagRepo) GetTagByID(ctx context.Context, tagID uuid.UUID) (models.Tag, error) {
	const op = "repository.tag_repository.GetTagByID"

	query, args, err := r.sb.Select(tagColumns...).From("tags t").Where(sq.Eq{"t.id": tagID}).ToSql()
	if err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}

	var t models.Tag
	err = r.db.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Tag{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// ListTags возвращает все теги по возрастанию имени.
func (r *TagRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "repository.tag_repository.ListTags"

	query, args, err := r.sb.Select(tagColumns...).From("tags t").OrderBy("t.name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}

// MissingTagIDs возвращает id из списка, для которых нет тега.
func (r *TagRepo) MissingTagIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	const op = "repository.tag_repository.MissingTagIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := r.sb.Select("id").From("tags").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]struct{}, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing, nil
}

// loadTags загружает теги для набора владельцев через таблицу связей.
func loadTags(ctx context.Context, db *pgxpool.Pool, sb sq.StatementBuilderType, junction, ownerColumn string, ownerIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	query, args, err := sb.Select(append([]string{"j." + ownerColumn}, tagColumns...)...).
		From(junction + " j").
		Join("tags t ON t.id = j.tag_id").
		Where(sq.Eq{"j." + ownerColumn: ownerIDs}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[uuid.UUID][]models.Tag, len(ownerIDs))
	for rows.Next() {
		var (
			ownerID uuid.UUID
			t       models.Tag
		)
		if err := rows.Scan(&ownerID, &t.ID, &t.Name, &t.Slug, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		res[ownerID] = append(res[ownerID], t)
	}

	return res, rows.Err()
}

// replaceTagLinks заменяет набор тегов владельца внутри транзакции.
func replaceTagLinks(ctx context.Context, tx pgx.Tx, sb sq.StatementBuilderType, junction, ownerColumn string, ownerID uuid.UUID, tagIDs []uuid.UUID) error {
	query, args, err := sb.Delete(junction).Where(sq.Eq{ownerColumn: ownerID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return err
	}

	if len(tagIDs) == 0 {
		return nil
	}

	insert := sb.Insert(junction).Columns(ownerColumn, "tag_id")
	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		insert = insert.Values(ownerID, id)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrNotFound
		}
		return err
	}

	return nil
}
