package db

import "time"

// PostStatistic aggregates view counters per post. Posts live in the
// external content store, so the key is the post slug rather than a local
// id.
type PostStatistic struct {
	ID             uint   `gorm:"primaryKey"`
	PostSlug       string `gorm:"size:128;uniqueIndex"`
	PageViews      uint64 `gorm:"default:0"`
	UniqueVisitors uint64 `gorm:"default:0"`
	LastViewedAt   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName pins the table name to avoid pluralization surprises.
func (PostStatistic) TableName() string {
	return "post_statistics"
}

// PostVisit records per-visitor view history for unique-visitor dedupe.
type PostVisit struct {
	ID           uint   `gorm:"primaryKey"`
	PostSlug     string `gorm:"size:128;index:idx_post_visits_slug_visitor,unique"`
	VisitorID    string `gorm:"size:64;index:idx_post_visits_slug_visitor,unique"`
	LastViewedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the table name.
func (PostVisit) TableName() string {
	return "post_visits"
}
