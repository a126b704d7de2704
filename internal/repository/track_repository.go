package repository

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/placementai/placement-predictor/internal/model"
	"gorm.io/gorm"
)

type TrackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) *TrackRepository {
	return &TrackRepository{db}
}

// SearchTracks runs a KNN query over the track embeddings using the
// pgvector <-> distance operator.
func (r *TrackRepository) SearchTracks(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.Track, error) {
	tracks := []model.Track{}
	err := r.db.WithContext(ctx).Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM tracks
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&tracks).Error
	return tracks, mapStoreErr("search tracks", err)
}

func (r *TrackRepository) UpsertTrack(ctx context.Context, track *model.Track) error {
	var existing model.Track
	err := r.db.WithContext(ctx).First(&existing, "title = ?", track.Title).Error
	if err == nil {
		track.ID = existing.ID
		track.CreatedAt = existing.CreatedAt
		return mapStoreErr("update track", r.db.WithContext(ctx).Save(track).Error)
	}
	return mapStoreErr("create track", r.db.WithContext(ctx).Create(track).Error)
}

func (r *TrackRepository) GetTracks(ctx context.Context) ([]model.Track, error) {
	tracks := []model.Track{}
	err := r.db.WithContext(ctx).Order("title asc").Find(&tracks).Error
	return tracks, mapStoreErr("get tracks", err)
}
