package service

import (
	"errors"
	"strings"
	"time"

	"github.com/digitalarchive/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidVisit is returned when the slug or visitor id is missing.
var ErrInvalidVisit = errors.New("invalid visit: slug and visitor id are required")

// AnalyticsService tracks page views and unique visitors per post slug.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates an AnalyticsService instance.
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// RecordPostView registers one view of the post by the visitor and returns
// the updated counters. A visitor only increments the unique count once per
// slug.
func (s *AnalyticsService) RecordPostView(slug, visitorID string, now time.Time) (*db.PostStatistic, error) {
	slug = strings.TrimSpace(slug)
	visitorID = strings.TrimSpace(visitorID)
	if slug == "" || visitorID == "" {
		return nil, ErrInvalidVisit
	}

	var stats db.PostStatistic

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		visit := db.PostVisit{
			PostSlug:     slug,
			VisitorID:    visitorID,
			LastViewedAt: now,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_slug"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).Create(&visit)
		if insert.Error != nil {
			return insert.Error
		}

		isNewVisitor := insert.RowsAffected == 1
		if !isNewVisitor {
			if err := tx.Model(&db.PostVisit{}).
				Where("post_slug = ? AND visitor_id = ?", slug, visitorID).
				Update("last_viewed_at", now).Error; err != nil {
				return err
			}
		}

		statsResult := tx.Where("post_slug = ?", slug).First(&stats)
		switch {
		case errors.Is(statsResult.Error, gorm.ErrRecordNotFound):
			stats = db.PostStatistic{PostSlug: slug}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		case statsResult.Error != nil:
			return statsResult.Error
		}

		stats.PageViews++
		if isNewVisitor {
			stats.UniqueVisitors++
		}
		stats.LastViewedAt = now

		return tx.Save(&stats).Error
	}); err != nil {
		return nil, err
	}

	return &stats, nil
}

// PostStats returns the counters for a slug, or zero counters when the post
// has never been viewed.
func (s *AnalyticsService) PostStats(slug string) (*db.PostStatistic, error) {
	var stats db.PostStatistic
	if err := s.db.Where("post_slug = ?", slug).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &db.PostStatistic{PostSlug: slug}, nil
		}
		return nil, err
	}
	return &stats, nil
}
