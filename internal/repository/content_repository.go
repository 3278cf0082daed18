package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/models"
	"storefront/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ContentRepo хранит одиночные записи: "обо мне" и настройки сайта.
// Всегда читается первая строка по id.
type ContentRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *ContentRepo) GetAbout(ctx context.Context) (models.AboutMe, error) {
	const op = "repository.content_repository.GetAbout"

	query, args, err := r.sb.Select("id", "title", "content", "image_url", "updated_at", "updated_by").
		From("about_me").
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return models.AboutMe{}, fmt.Errorf("%s: %w", op, err)
	}

	var a models.AboutMe
	err = r.db.QueryRow(ctx, query, args...).Scan(&a.ID, &a.Title, &a.Content, &a.ImageRef, &a.UpdatedAt, &a.UpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AboutMe{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.AboutMe{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// UpsertAbout вставляет строку, если её нет, иначе обновляет первую.
func (r *ContentRepo) UpsertAbout(ctx context.Context, about models.AboutMe) (models.AboutMe, error) {
	const op = "repository.content_repository.UpsertAbout"

	current, err := r.GetAbout(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.AboutMe{}, fmt.Errorf("%s: %w", op, err)
	}

	var query string
	var args []interface{}

	if errors.Is(err, storage.ErrNotFound) {
		query, args, err = r.sb.Insert("about_me").
			Columns("title", "content", "image_url", "updated_by").
			Values(about.Title, about.Content, about.ImageRef, about.UpdatedBy).
			Suffix("RETURNING id, updated_at").
			ToSql()
	} else {
		query, args, err = r.sb.Update("about_me").
			Set("title", about.Title).
			Set("content", about.Content).
			Set("image_url", about.ImageRef).
			Set("updated_by", about.UpdatedBy).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": current.ID}).
			Suffix("RETURNING id, updated_at").
			ToSql()
	}
	if err != nil {
		return models.AboutMe{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&about.ID, &about.UpdatedAt); err != nil {
		return models.AboutMe{}, fmt.Errorf("%s: %w", op, err)
	}

	return about, nil
}

func (r *ContentRepo) GetSiteSettings(ctx context.Context) (models.SiteSettings, error) {
	const op = "repository.content_repository.GetSiteSettings"

	query, args, err := r.sb.Select("id", "site_name", "theme", "primary_color", "footer_text", "logo_url", "updated_at", "updated_by").
		From("site_settings").
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	var s models.SiteSettings
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID,
		&s.SiteName,
		&s.Theme,
		&s.PrimaryColor,
		&s.FooterText,
		&s.LogoRef,
		&s.UpdatedAt,
		&s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SiteSettings{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (r *ContentRepo) UpsertSiteSettings(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	const op = "repository.content_repository.UpsertSiteSettings"

	current, err := r.GetSiteSettings(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	var query string
	var args []interface{}

	if errors.Is(err, storage.ErrNotFound) {
		query, args, err = r.sb.Insert("site_settings").
			Columns("site_name", "theme", "primary_color", "footer_text", "logo_url", "updated_by").
			Values(settings.SiteName, settings.Theme, settings.PrimaryColor, settings.FooterText, settings.LogoRef, settings.UpdatedBy).
			Suffix("RETURNING id, updated_at").
			ToSql()
	} else {
		query, args, err = r.sb.Update("site_settings").
			Set("site_name", settings.SiteName).
			Set("theme", settings.Theme).
			Set("primary_color", settings.PrimaryColor).
			Set("footer_text", settings.FooterText).
			Set("logo_url", settings.LogoRef).
			Set("updated_by", settings.UpdatedBy).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": current.ID}).
			Suffix("RETURNING id, updated_at").
			ToSql()
	}
	if err != nil {
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&settings.ID, &settings.UpdatedAt); err != nil {
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	return settings, nil
}
