package models

import "time"

// Transaction is a screened payment. Result is assigned once at scoring time;
// Feedback is written at most once by a reviewer.
type Transaction struct {
	ID        uint      `gorm:"primarykey"`
	Amount    int64     `gorm:"not null"`
	IP        string    `gorm:"type:varchar(15);not null"`
	Number    string    `gorm:"type:varchar(16);not null;index:idx_transactions_number_date,priority:1"`
	Region    Region    `gorm:"type:varchar(8);not null"`
	Date      time.Time `gorm:"not null;index:idx_transactions_number_date,priority:2"`
	Result    Verdict   `gorm:"type:varchar(20);not null"`
	Feedback  *Verdict  `gorm:"type:varchar(20)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Transaction) HasFeedback() bool {
	return t.Feedback != nil && *t.Feedback != ""
}

// FeedbackString returns the recorded feedback or "" when none exists.
func (t *Transaction) FeedbackString() string {
	if !t.HasFeedback() {
		return ""
	}
	return string(*t.Feedback)
}
