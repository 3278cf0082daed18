package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/repository"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/patrickmn/go-cache"
)

const (
	defaultSiteName  = "Storefront"
	siteSettingsKey  = "site_settings"
	cacheCleanupTick = 10 * time.Minute
)

type ImageService interface {
	Replace(ctx context.Context, slot models.ImageSlot, previousRef string, upload models.Upload) (string, error)
	Remove(ctx context.Context, ref string) error
	SignedURL(ctx context.Context, ref string) string
}

// ContentService ведёт единственные строки "обо мне" и настроек сайта.
type ContentService struct {
	log      *slog.Logger
	about    repository.AboutRepository
	settings repository.SiteSettingsRepository
	images   ImageService
	cache    *cache.Cache
}

func NewContentService(
	log *slog.Logger,
	about repository.AboutRepository,
	settings repository.SiteSettingsRepository,
	images ImageService,
	settingsTTL time.Duration,
) *ContentService {
	return &ContentService{
		log:      log,
		about:    about,
		settings: settings,
		images:   images,
		cache:    cache.New(settingsTTL, cacheCleanupTick),
	}
}

// GetAbout возвращает пустую страницу, пока её ни разу не сохраняли.
func (s *ContentService) GetAbout(ctx context.Context) (dto.AboutResponse, error) {
	const op = "content_service.GetAbout"

	about, err := s.currentAbout(ctx)
	if err != nil {
		s.log.Error("failed to load about", slog.String("op", op), sl.Err(err))

		return dto.AboutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.aboutResponse(ctx, about), nil
}

func (s *ContentService) UpdateAbout(ctx context.Context, req dto.AboutRequest, updatedBy string) (dto.AboutResponse, error) {
	const op = "content_service.UpdateAbout"

	return s.saveAbout(ctx, op, updatedBy, func(a *models.AboutMe) error {
		a.Title = req.Title
		a.Content = req.Content
		return nil
	})
}

func (s *ContentService) SetAboutImage(ctx context.Context, upload models.Upload, updatedBy string) (dto.AboutResponse, error) {
	const op = "content_service.SetAboutImage"

	return s.saveAbout(ctx, op, updatedBy, func(a *models.AboutMe) error {
		ref, err := s.images.Replace(ctx, models.SlotAbout, a.ImageRef, upload)
		if err != nil {
			return err
		}
		a.ImageRef = ref
		return nil
	})
}

func (s *ContentService) DeleteAboutImage(ctx context.Context, updatedBy string) (dto.AboutResponse, error) {
	const op = "content_service.DeleteAboutImage"

	return s.saveAbout(ctx, op, updatedBy, func(a *models.AboutMe) error {
		if err := s.images.Remove(ctx, a.ImageRef); err != nil {
			return err
		}
		a.ImageRef = ""
		return nil
	})
}

func (s *ContentService) saveAbout(ctx context.Context, op, updatedBy string, apply func(*models.AboutMe) error) (dto.AboutResponse, error) {
	log := s.log.With(
		slog.String("op", op),
		slog.String("updated_by", sl.MaskName(updatedBy)),
	)

	about, err := s.currentAbout(ctx)
	if err != nil {
		log.Error("failed to load about", sl.Err(err))

		return dto.AboutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := apply(&about); err != nil {
		return dto.AboutResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	about.UpdatedBy = updatedBy

	saved, err := s.about.UpsertAbout(ctx, about)
	if err != nil {
		log.Error("failed to save about", sl.Err(err))

		return dto.AboutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("about updated")

	return s.aboutResponse(ctx, saved), nil
}

func (s *ContentService) currentAbout(ctx context.Context) (models.AboutMe, error) {
	about, err := s.about.GetAbout(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return models.AboutMe{}, nil
	}

	return about, err
}

func (s *ContentService) aboutResponse(ctx context.Context, a models.AboutMe) dto.AboutResponse {
	return dto.AboutResponse{
		Title:     a.Title,
		Content:   a.Content,
		ImageURL:  s.images.SignedURL(ctx, a.ImageRef),
		UpdatedAt: a.UpdatedAt,
		UpdatedBy: a.UpdatedBy,
	}
}

// GetSiteSettings читает настройки через кэш; подписанная ссылка на логотип
// строится при каждом чтении, в кэше лежит только ссылка хранилища.
func (s *ContentService) GetSiteSettings(ctx context.Context) (dto.SiteSettingsResponse, error) {
	const op = "content_service.GetSiteSettings"

	settings, err := s.currentSettings(ctx)
	if err != nil {
		s.log.Error("failed to load site settings", slog.String("op", op), sl.Err(err))

		return dto.SiteSettingsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.settingsResponse(ctx, settings), nil
}

func (s *ContentService) UpdateSiteSettings(ctx context.Context, req dto.SiteSettingsRequest, updatedBy string) (dto.SiteSettingsResponse, error) {
	const op = "content_service.UpdateSiteSettings"

	theme, ok := findTheme(req.Theme)
	if !ok {
		return dto.SiteSettingsResponse{}, fmt.Errorf("%s: %w", op, models.NewValidationError("theme", "unknown theme "+req.Theme))
	}

	return s.saveSettings(ctx, op, updatedBy, func(st *models.SiteSettings) error {
		st.SiteName = req.SiteName
		st.Theme = theme.Key
		st.PrimaryColor = req.PrimaryColor
		if st.PrimaryColor == "" {
			st.PrimaryColor = theme.PrimaryColor
		}
		st.FooterText = req.FooterText
		return nil
	})
}

func (s *ContentService) SetLogo(ctx context.Context, upload models.Upload, updatedBy string) (dto.SiteSettingsResponse, error) {
	const op = "content_service.SetLogo"

	return s.saveSettings(ctx, op, updatedBy, func(st *models.SiteSettings) error {
		ref, err := s.images.Replace(ctx, models.SlotLogo, st.LogoRef, upload)
		if err != nil {
			return err
		}
		st.LogoRef = ref
		return nil
	})
}

func (s *ContentService) DeleteLogo(ctx context.Context, updatedBy string) (dto.SiteSettingsResponse, error) {
	const op = "content_service.DeleteLogo"

	return s.saveSettings(ctx, op, updatedBy, func(st *models.SiteSettings) error {
		if err := s.images.Remove(ctx, st.LogoRef); err != nil {
			return err
		}
		st.LogoRef = ""
		return nil
	})
}

func (s *ContentService) Themes() []models.Theme {
	out := make([]models.Theme, len(themes))
	copy(out, themes)
	return out
}

func (s *ContentService) saveSettings(ctx context.Context, op, updatedBy string, apply func(*models.SiteSettings) error) (dto.SiteSettingsResponse, error) {
	log := s.log.With(
		slog.String("op", op),
		slog.String("updated_by", sl.MaskName(updatedBy)),
	)

	// читаем мимо кэша, чтобы не затереть чужое изменение устаревшей копией
	settings, err := s.loadSettings(ctx)
	if err != nil {
		log.Error("failed to load site settings", sl.Err(err))

		return dto.SiteSettingsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := apply(&settings); err != nil {
		return dto.SiteSettingsResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	settings.UpdatedBy = updatedBy

	saved, err := s.settings.UpsertSiteSettings(ctx, settings)
	if err != nil {
		log.Error("failed to save site settings", sl.Err(err))

		return dto.SiteSettingsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(siteSettingsKey)
	log.Info("site settings updated")

	return s.settingsResponse(ctx, saved), nil
}

func (s *ContentService) currentSettings(ctx context.Context) (models.SiteSettings, error) {
	if cached, ok := s.cache.Get(siteSettingsKey); ok {
		return cached.(models.SiteSettings), nil
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return models.SiteSettings{}, err
	}

	s.cache.SetDefault(siteSettingsKey, settings)

	return settings, nil
}

func (s *ContentService) loadSettings(ctx context.Context) (models.SiteSettings, error) {
	settings, err := s.settings.GetSiteSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		theme, _ := findTheme(DefaultTheme)

		return models.SiteSettings{
			SiteName:     defaultSiteName,
			Theme:        theme.Key,
			PrimaryColor: theme.PrimaryColor,
		}, nil
	}

	return settings, err
}

func (s *ContentService) settingsResponse(ctx context.Context, st models.SiteSettings) dto.SiteSettingsResponse {
	return dto.SiteSettingsResponse{
		SiteName:     st.SiteName,
		Theme:        st.Theme,
		PrimaryColor: st.PrimaryColor,
		FooterText:   st.FooterText,
		LogoURL:      s.images.SignedURL(ctx, st.LogoRef),
		UpdatedAt:    st.UpdatedAt,
		UpdatedBy:    st.UpdatedBy,
	}
}
