package models

// ScoreRecord is one finished quiz in a user's score history.
type ScoreRecord struct {
	Score int    `json:"score"`
	Total int    `json:"total"`
	Date  string `json:"date,omitempty"`
}

// Stats summarizes a score history.
type Stats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// LeaderboardEntry holds the latest score per user.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Achievement is a dated score entry, kept even when the leaderboard moves on.
type Achievement struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Date     string `json:"date"`
}
