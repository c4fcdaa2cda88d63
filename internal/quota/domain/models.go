// Package domain contains the persistence model and contracts for the
// daily usage counter.
package domain

import "time"

// DailyUsage is the counter row for one identity on one calendar day.
// Count only moves forward within a day; it resets by the day advancing,
// never by decrement.
type DailyUsage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	Identity  string    `gorm:"type:text;not null;uniqueIndex:uniq_identity_day" json:"identity"`
	Day       string    `gorm:"type:text;not null;uniqueIndex:uniq_identity_day" json:"day"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (DailyUsage) TableName() string { return "daily_usage" }

// Decision is the outcome of recording one submission.
type Decision struct {
	// Count is the identity's count for today after the operation. When
	// Accepted is false the count is unchanged.
	Count    int  `json:"count"`
	Accepted bool `json:"accepted"`
}

// Status is a read-only snapshot of an identity's quota for today.
type Status struct {
	Identity  string `json:"identity"`
	Day       string `json:"day"`
	Limit     int    `json:"limit"`
	Count     int    `json:"count"`
	Remaining int    `json:"remaining"`
	Exhausted bool   `json:"exhausted"`
}
