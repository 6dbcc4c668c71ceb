package models

// DailyCount is one calendar-day bucket of the complaint trend series
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CategoryCount is one bucket of the complaint category breakdown
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// PlatformCount is one bucket of the device-token platform breakdown
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

type ComplaintAnalytics struct {
	Total         int64           `json:"total"`
	Pending       int64           `json:"pending"`
	Approved      int64           `json:"approved"`
	Rejected      int64           `json:"rejected"`
	DailyTrend    []DailyCount    `json:"daily_trend"`
	ByCategory    []CategoryCount `json:"by_category"`
	LookbackDays  int             `json:"lookback_days"`
}

type UserAnalytics struct {
	Total         int64           `json:"total"`
	Active        int64           `json:"active"`
	NewInWindow   int64           `json:"new_in_window"`
	RetentionRate float64         `json:"retention_rate"`
	ByPlatform    []PlatformCount `json:"by_platform"`
	LookbackDays  int             `json:"lookback_days"`
}

type WithdrawalAnalytics struct {
	Total    int64 `json:"total"`
	Amount   int64 `json:"amount"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
}
