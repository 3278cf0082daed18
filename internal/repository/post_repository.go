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

type PostRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPostRepository(db *pgxpool.Pool) *PostRepo {
	return &PostRepo{
		db: db,
		sb: newStatementBuilder(),
	}
}

var postColumns = []string{"p.id", "p.title", "p.content", "p.author", "p.image_urls", "p.is_pinned", "p.created_at"}

// CreatePost сохраняет пост и его теги в одной транзакции.
func (r *PostRepo) CreatePost(ctx context.Context, post models.Post) (uuid.UUID, error) {
	const op = "repository.post_repository.CreatePost"

	query, args, err := r.sb.Insert("posts").
		Columns(
			"title",
			"content",
			"author",
			"image_urls",
			"is_pinned",
		).
		Values(
			post.Title,
			post.Content,
			post.Author,
			nonNilStrings(post.Images),
			post.IsPinned,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return err
		}
		return replaceTagLinks(ctx, tx, r.sb, "post_tags", "post_id", id, post.TagIDs())
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdatePost перезаписывает поля и набор тегов поста.
func (r *PostRepo) UpdatePost(ctx context.Context, post models.Post) error {
	const op = "repository.post_repository.UpdatePost"

	query, args, err := r.sb.Update("posts").
		Set("title", post.Title).
		Set("content", post.Content).
		Set("image_urls", nonNilStrings(post.Images)).
		Where(sq.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return replaceTagLinks(ctx, tx, r.sb, "post_tags", "post_id", post.ID, post.TagIDs())
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeletePost удаляет пост, комментарии и связи с тегами удаляются каскадом.
func (r *PostRepo) DeletePost(ctx context.Context, postID uuid.UUID) error {
	const op = "repository.post_repository.DeletePost"

	query, args, err := r.sb.Delete("posts").
		Where(sq.Eq{"id": postID}).
		ToSql()
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

func (r *PostRepo) GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	const op = "repository.post_repository.GetPostByID"

	query, args, err := r.sb.Select(postColumns...).
		From("posts p").
		Where(sq.Eq{"p.id": postID}).
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	post, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	posts := []models.Post{post}
	if err := r.attachRelations(ctx, posts); err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	return posts[0], nil
}

// ListPosts возвращает страницу постов по убыванию даты создания и общее количество по фильтру.
func (r *PostRepo) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]models.Post, int, error) {
	const op = "repository.post_repository.ListPosts"

	preds := postPredicates(filter)

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("posts p").Where(preds).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	query, args, err := r.sb.Select(postColumns...).
		From("posts p").
		Where(preds).
		OrderBy("p.created_at DESC", "p.id").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	posts, err := r.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return posts, total, nil
}

func (r *PostRepo) ListPinnedPosts(ctx context.Context) ([]models.Post, error) {
	const op = "repository.post_repository.ListPinnedPosts"

	query, args, err := r.sb.Select(postColumns...).
		From("posts p").
		Where(sq.Eq{"p.is_pinned": true}).
		OrderBy("p.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts, err := r.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (r *PostRepo) SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) error {
	const op = "repository.post_repository.SetPinned"

	query, args, err := r.sb.Update("posts").
		Set("is_pinned", pinned).
		Where(sq.Eq{"id": postID}).
		ToSql()
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

func (r *PostRepo) AddComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	const op = "repository.post_repository.AddComment"

	query, args, err := r.sb.Insert("comments").
		Columns("post_id", "author", "content").
		Values(comment.PostID, comment.Author, comment.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

func (r *PostRepo) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	const op = "repository.post_repository.ListComments"

	byPost, err := r.loadComments(ctx, []uuid.UUID{postID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments := byPost[postID]
	if comments == nil {
		comments = []models.Comment{}
	}

	return comments, nil
}

func (r *PostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachRelations(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// attachRelations догружает теги и комментарии двумя запросами на всю страницу.
func (r *PostRepo) attachRelations(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	tags, err := loadTags(ctx, r.db, r.sb, "post_tags", "post_id", ids)
	if err != nil {
		return err
	}

	comments, err := r.loadComments(ctx, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		posts[i].Tags = tags[posts[i].ID]
		if posts[i].Tags == nil {
			posts[i].Tags = []models.Tag{}
		}
		posts[i].Comments = comments[posts[i].ID]
		if posts[i].Comments == nil {
			posts[i].Comments = []models.Comment{}
		}
	}

	return nil
}

func (r *PostRepo) loadComments(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Comment, error) {
	query, args, err := r.sb.Select("id", "post_id", "author", "content", "created_at").
		From("comments").
		Where(sq.Eq{"post_id": postIDs}).
		OrderBy("created_at ASC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[uuid.UUID][]models.Comment, len(postIDs))
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		res[c.PostID] = append(res[c.PostID], c)
	}

	return res, rows.Err()
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Author,
		&p.Images,
		&p.IsPinned,
		&p.CreatedAt,
	)
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, err
}
