package analytics

import (
	"time"

	"github.com/richxcame/carwash-booking/pkg/money"
	"github.com/shopspring/decimal"
)

// Window bounds the periods an overview is computed over
type Window struct {
	DayStart    time.Time
	DayEnd      time.Time // exclusive
	RecentSince time.Time
}

// Counts is the raw aggregate read from storage
type Counts struct {
	TodayBookings     int64
	PendingBookings   int64
	CompletedToday    int64
	RevenueToday      decimal.Decimal
	AvgServiceMinutes float64
	RecentBookings    int64
	RecentFinished    int64
}

// Overview is the admin dashboard summary
type Overview struct {
	TodayBookings        int64   `json:"today_bookings"`
	PendingBookings      int64   `json:"pending_bookings"`
	CompletedBookings    int64   `json:"completed_bookings"`
	RevenueToday         float64 `json:"revenue_today"`
	AvgServiceTime       int     `json:"avg_service_time"`
	CompletionPercentage int     `json:"completion_percentage"`
}

func (c *Counts) toOverview() *Overview {
	o := &Overview{
		TodayBookings:     c.TodayBookings,
		PendingBookings:   c.PendingBookings,
		CompletedBookings: c.CompletedToday,
		RevenueToday:      money.ToFloat(c.RevenueToday),
		AvgServiceTime:    int(decimal.NewFromFloat(c.AvgServiceMinutes).Round(0).IntPart()),
	}
	if c.RecentBookings > 0 {
		pct := decimal.NewFromInt(c.RecentFinished * 100).Div(decimal.NewFromInt(c.RecentBookings))
		o.CompletionPercentage = int(pct.Round(0).IntPart())
	}
	return o
}
