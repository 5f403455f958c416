package service

import (
	"context"
	"encoding/base64"
	"log"
	"movie_marathon/model"
	"movie_marathon/provider"
	"strings"

	"github.com/google/uuid"
)

type PosterStore interface {
	ListByFilmID(ctx context.Context, filmID uuid.UUID) ([]model.PosterImage, error)
	ExistsForFilm(ctx context.Context, filmID uuid.UUID) (bool, error)
	BulkInsert(ctx context.Context, imgs []model.PosterImage) error
	Delete(ctx context.Context, id uuid.UUID) error
	Latest(ctx context.Context, limit int) ([]model.PosterImage, error)
	MapByImdbTitleIDs(ctx context.Context, ids []string) (map[string]string, error)
}

type ImageCatalog interface {
	FilmImages(ctx context.Context, filmID int, sizeCategory, orientation string) (*provider.ImagesPayload, error)
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

type PosterService struct {
	store   PosterStore
	catalog ImageCatalog
}

func NewPosterService(store PosterStore, catalog ImageCatalog) *PosterService {
	return &PosterService{store: store, catalog: catalog}
}

func (s *PosterService) ListByFilmID(ctx context.Context, filmID uuid.UUID) ([]model.PosterImage, error) {
	return s.store.ListByFilmID(ctx, filmID)
}

func (s *PosterService) Latest(ctx context.Context, limit int) ([]model.PosterImage, error) {
	return s.store.Latest(ctx, limit)
}

func (s *PosterService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// MapByImdbTitleIDs returns a stable list plus a map of data URIs for
// the requested cross-provider ids.
func (s *PosterService) MapByImdbTitleIDs(ctx context.Context, ids []string) ([]model.PosterRef, map[string]string, error) {
	images, err := s.store.MapByImdbTitleIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	urls := make(map[string]string, len(images))
	for id, b64 := range images {
		urls[id] = "data:image/jpeg;base64," + b64
	}
	refs := make([]model.PosterRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, model.PosterRef{ImdbTitleID: id, PosterURL: urls[id]})
	}
	return refs, urls, nil
}

func deriveAltText(entry provider.ImageEntry, group, sizeKey string) string {
	parts := []string{}
	if group == "still" {
		parts = append(parts, "Still")
	} else {
		parts = append(parts, "Poster")
	}
	if entry.Region != "" {
		parts = append(parts, "("+entry.Region+")")
	}
	if entry.ImageOrientation != "" {
		parts = append(parts, "- "+entry.ImageOrientation)
	}
	if sizeKey != "" {
		parts = append(parts, sizeKey)
	}
	return strings.Join(parts, " ")
}

// IngestForFilm fetches and stores all available images for a film.
// The DB existence check is the cache: a film with any stored image is
// served from the DB without touching the provider.
func (s *PosterService) IngestForFilm(ctx context.Context, filmID uuid.UUID, movieGluFilmID int, altText, sizeCategory, orientation, prefer string) (*model.PosterIngestResult, error) {
	if sizeCategory == "" {
		sizeCategory = "medium"
	}

	cached, err := s.store.ExistsForFilm(ctx, filmID)
	if err != nil {
		return nil, err
	}
	if cached {
		images, err := s.store.ListByFilmID(ctx, filmID)
		if err != nil {
			return nil, err
		}
		return &model.PosterIngestResult{Cached: true, FilmID: filmID, Images: images}, nil
	}

	payload, err := s.catalog.FilmImages(ctx, movieGluFilmID, sizeCategory, orientation)
	if err != nil {
		return nil, err
	}
	entries := provider.ExtractImageEntries(payload, prefer)
	if len(entries) == 0 {
		return nil, NewStatusError(404, "no images returned for this film")
	}

	saved := []model.PosterImage{}
	for _, entry := range entries {
		variant := provider.PickSizeVariant(entry, sizeCategory)
		if variant == nil || variant.FilmImage == "" {
			continue
		}
		data, err := s.catalog.DownloadImage(ctx, variant.FilmImage)
		if err != nil {
			// A single unreachable variant never fails the ingest.
			log.Printf("[poster.service] download failed, skipping: %v", err)
			continue
		}
		alt := altText
		if alt == "" {
			alt = deriveAltText(entry, prefer, sizeCategory)
		}
		saved = append(saved, model.PosterImage{
			FilmID:      filmID,
			ImageBase64: base64.StdEncoding.EncodeToString(data),
			AltText:     alt,
		})
	}

	if len(saved) == 0 {
		return nil, NewStatusError(502, "images found but none could be saved")
	}
	if err := s.store.BulkInsert(ctx, saved); err != nil {
		return nil, err
	}
	return &model.PosterIngestResult{Cached: false, FilmID: filmID, Images: saved}, nil
}
