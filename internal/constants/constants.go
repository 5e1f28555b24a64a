package constants

import "time"

const (
	RankingsCacheTTL = 10 * time.Minute
	RefreshDebounce  = 30 * time.Second
)

const (
	FeedAPITimeout  = 10 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 200
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	FeedPageSize = 100
	FeedMaxPages = 50
)
