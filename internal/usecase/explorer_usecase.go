package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/dto"
	"github.com/placementai/placement-predictor/internal/model"
	"github.com/placementai/placement-predictor/internal/service"
)

// TrackStore is the slice of the track repository the explorer needs.
type TrackStore interface {
	SearchTracks(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.Track, error)
	UpsertTrack(ctx context.Context, track *model.Track) error
	GetTracks(ctx context.Context) ([]model.Track, error)
}

type ExplorerUsecase struct {
	tracks TrackStore
	gemini service.GeminiServiceInterface
}

func NewExplorerUsecase(tracks TrackStore, gemini service.GeminiServiceInterface) *ExplorerUsecase {
	return &ExplorerUsecase{tracks: tracks, gemini: gemini}
}

// Explore embeds the free-text query and returns the closest career tracks.
func (uc *ExplorerUsecase) Explore(ctx context.Context, query string, topK int) ([]dto.ExploreResult, error) {
	if query == "" {
		return nil, apperror.NewValidationError("q", "query is required")
	}
	if topK < 1 || topK > 10 {
		topK = 3
	}

	embedding, err := uc.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, &apperror.UpstreamServiceError{Service: "gemini", Err: err}
	}

	tracks, err := uc.tracks.SearchTracks(ctx, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, err
	}

	results := make([]dto.ExploreResult, 0, len(tracks))
	for _, track := range tracks {
		results = append(results, dto.ExploreResult{
			Title:   track.Title,
			Summary: track.Summary,
			Skills:  track.Skills,
		})
	}
	return results, nil
}

// Tracks lists the full career-track catalog without a similarity query.
func (uc *ExplorerUsecase) Tracks(ctx context.Context) ([]dto.ExploreResult, error) {
	tracks, err := uc.tracks.GetTracks(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.ExploreResult, 0, len(tracks))
	for _, track := range tracks {
		results = append(results, dto.ExploreResult{
			Title:   track.Title,
			Summary: track.Summary,
			Skills:  track.Skills,
		})
	}
	return results, nil
}

// SeedTracks builds (or refreshes) the embedded career-track catalog the
// explorer searches over.
func (uc *ExplorerUsecase) SeedTracks(ctx context.Context) error {
	seeds := []model.Track{
		{
			Title:   "Data Analyst",
			Summary: "Turn raw business data into dashboards, reports and decisions.",
			Skills:  "SQL, Excel, Tableau, Power BI, Python, statistics",
		},
		{
			Title:   "Data Scientist",
			Summary: "Build and evaluate predictive models over large datasets.",
			Skills:  "Python, machine learning, pandas, scikit-learn, statistics",
		},
		{
			Title:   "Frontend Developer",
			Summary: "Build responsive web interfaces and client-side applications.",
			Skills:  "React, Angular, Vue, JavaScript, TypeScript, CSS",
		},
		{
			Title:   "Backend Developer",
			Summary: "Design APIs, services and data layers behind web products.",
			Skills:  "Node, Go, databases, REST APIs, message queues",
		},
		{
			Title:   "Software Engineer",
			Summary: "General software design and delivery across the stack.",
			Skills:  "data structures, algorithms, system design, Git, testing",
		},
	}

	for i := range seeds {
		embedding, err := uc.gemini.GenerateEmbedding(ctx,
			fmt.Sprintf("%s. Key skills: %s", seeds[i].Summary, seeds[i].Skills))
		if err != nil {
			return &apperror.UpstreamServiceError{Service: "gemini", Err: err}
		}
		seeds[i].Embedding = pgvector.NewVector(embedding)
		seeds[i].UpdatedAt = time.Now()
		if err := uc.tracks.UpsertTrack(ctx, &seeds[i]); err != nil {
			return err
		}
	}
	return nil
}
