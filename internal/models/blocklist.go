package models

import "time"

// SuspiciousIP is an address whose transactions are always prohibited.
type SuspiciousIP struct {
	ID        uint   `gorm:"primarykey"`
	IP        string `gorm:"type:varchar(15);not null;uniqueIndex"`
	CreatedAt time.Time
}

func (SuspiciousIP) TableName() string {
	return "suspicious_ips"
}

// StolenCard is a card number reported stolen.
type StolenCard struct {
	ID        uint   `gorm:"primarykey"`
	Number    string `gorm:"type:varchar(16);not null;uniqueIndex"`
	CreatedAt time.Time
}

func (StolenCard) TableName() string {
	return "stolen_cards"
}
