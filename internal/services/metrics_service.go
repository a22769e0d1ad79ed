package services

import (
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/metrics"
)

// MaxYearRangeSpan is the widest year range, in years, a range query may cover.
const MaxYearRangeSpan = 100

// metricsService loads a user's periods and hands them to the metrics engine.
// Concurrent identical requests share one database read.
type metricsService struct {
	db    *gorm.DB
	loc   *time.Location
	group singleflight.Group
}

// NewMetricsService creates a new MetricsServicer. Calendar boundaries are
// evaluated in loc; nil means UTC.
func NewMetricsService(db *gorm.DB, loc *time.Location) MetricsServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &metricsService{db: db, loc: loc}
}

// GetYearlyMetrics aggregates the periods overlapping the given calendar year.
func (s *metricsService) GetYearlyMetrics(userID string, year int) (*metrics.Yearly, error) {
	v, err, _ := s.group.Do(fmt.Sprintf("yearly:%s:%d", userID, year), func() (interface{}, error) {
		periods, err := findPeriodsOverlapping(s.db, userID, metrics.YearWindow(year, s.loc))
		if err != nil {
			return nil, err
		}
		result := metrics.ComputeYearly(periods, year, s.loc)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*metrics.Yearly), nil
}

// GetOverallMetrics aggregates every period the user has.
func (s *metricsService) GetOverallMetrics(userID string) (*metrics.Overall, error) {
	v, err, _ := s.group.Do("overall:"+userID, func() (interface{}, error) {
		periods, err := findAllPeriods(s.db, userID)
		if err != nil {
			return nil, err
		}
		result := metrics.ComputeOverall(periods)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*metrics.Overall), nil
}

// GetYearRangeMetrics aggregates [startYear, endYear] with a per-year breakdown.
func (s *metricsService) GetYearRangeMetrics(userID string, startYear, endYear int) (*metrics.YearRange, error) {
	if startYear > endYear {
		return nil, apperrors.ErrInvalidYearRange
	}
	if endYear-startYear+1 > MaxYearRangeSpan {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidYearRange,
			fmt.Sprintf("Year range must span at most %d years", MaxYearRangeSpan))
	}

	key := fmt.Sprintf("range:%s:%d:%d", userID, startYear, endYear)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		periods, err := findPeriodsOverlapping(s.db, userID, metrics.RangeWindow(startYear, endYear, s.loc))
		if err != nil {
			return nil, err
		}
		result := metrics.ComputeYearRange(periods, startYear, endYear, s.loc)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*metrics.YearRange), nil
}

// GetSummary aggregates a single owned period.
func (s *metricsService) GetSummary(userID, periodID string) (*metrics.Summary, error) {
	period, err := findOnePeriod(s.db, userID, periodID)
	if err != nil {
		return nil, err
	}
	result := metrics.Summarize(*period)
	return &result, nil
}
