package domain

import "time"

// DailyStats aggregates ticket counts per status for one issue date.
type DailyStats struct {
	Date        time.Time `json:"date"`
	TotalIssued int       `json:"total_issued"`
	Waiting     int       `json:"waiting"`
	Called      int       `json:"called"`
	InService   int       `json:"in_service"`
	Completed   int       `json:"completed"`
	Cancelled   int       `json:"cancelled"`
}

// QueueStats is the live view of one category's queue.
type QueueStats struct {
	CategoryID           int64 `json:"category_id"`
	WaitingTotal         int   `json:"waiting_total"`
	WaitingNormal        int   `json:"waiting_normal"`
	WaitingPriority      int   `json:"waiting_priority"`
	InService            int   `json:"in_service"`
	EstimatedWaitMinutes int   `json:"estimated_wait_minutes"`
}
