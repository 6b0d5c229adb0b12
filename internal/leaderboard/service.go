package leaderboard

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Pavlentiyys/digitalFest/internal/gateway"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
)

// OpenHour is the local hour from which the rating becomes visible on the
// event day.
const OpenHour = 14

// Service fetches the public standings and keeps a local snapshot so the
// board still renders when the API is unreachable.
type Service struct {
	gw    gateway.ClientInterface
	cache repository.LeaderboardCache
	now   func() time.Time
	log   *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects a clock for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. cache may be nil to disable the local
// snapshot.
func NewService(gw gateway.ClientInterface, cache repository.LeaderboardCache, opts ...Option) *Service {
	s := &Service{
		gw:    gw,
		cache: cache,
		now:   time.Now,
		log:   logger.Default().WithPrefix("leaderboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the standings ordered by coins descending, username
// ascending as the tiebreak. The endpoint is public, so no auth headers are
// sent. On success the full list is mirrored into the local cache; when the
// API is unreachable the last cached snapshot is served instead.
func (s *Service) Fetch(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")

	res, err := s.gw.Do(ctx, http.MethodGet, "/auth/students", nil, nil)
	if err != nil {
		log.Warn("failed to fetch standings: %v", err)
		return s.fromCache(ctx, filter, err)
	}

	var students []models.Student
	if !res.Decode(&students) {
		log.Warn("standings response was not a list")
		return s.fromCache(ctx, filter, nil)
	}

	sortStandings(students)

	if s.cache != nil {
		if err := s.cache.Replace(ctx, students); err != nil {
			log.Warn("failed to cache standings: %v", err)
		}
	}

	log.Info("fetched %d students", len(students))
	return applyFilter(students, filter), nil
}

// fromCache serves the last snapshot. fetchErr is returned only when the
// cache has nothing to offer.
func (s *Service) fromCache(ctx context.Context, filter repository.StudentFilter, fetchErr error) ([]models.Student, error) {
	if s.cache == nil {
		return nil, fetchErr
	}
	cached, err := s.cache.List(ctx, filter)
	if err != nil || len(cached) == 0 {
		return nil, fetchErr
	}
	s.log.Info("serving %d cached entries", len(cached))
	return cached, nil
}

// Position returns the 1-based rank of telegramID in the standings, or 0
// when absent.
func Position(students []models.Student, telegramID string) int {
	for i, s := range students {
		if s.TelegramID == telegramID {
			return i + 1
		}
	}
	return 0
}

// RatingOpen reports whether the standings may be shown yet. The gate opens
// at 14:00 event-local time (Asia/Almaty); hosts without timezone data fall
// back to a fixed UTC+6 offset.
func (s *Service) RatingOpen() bool {
	loc, err := time.LoadLocation("Asia/Almaty")
	if err != nil {
		loc = time.FixedZone("UTC+6", 6*60*60)
	}
	return s.now().In(loc).Hour() >= OpenHour
}

func sortStandings(students []models.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].Coins != students[j].Coins {
			return students[i].Coins > students[j].Coins
		}
		return students[i].Username < students[j].Username
	})
}

func applyFilter(students []models.Student, filter repository.StudentFilter) []models.Student {
	out := students
	if filter.Group != "" {
		out = make([]models.Student, 0, len(students))
		for _, s := range students {
			if s.Group == filter.Group {
				out = append(out, s)
			}
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}
