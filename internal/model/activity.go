package model

import (
	"time"
)

// Session is one viewing event of a single video
type Session struct {
	SID        int       `gorm:"column:sid;primaryKey;autoIncrement:false" validate:"gte=0"`
	UID        int       `gorm:"column:uid;not null" validate:"gte=0"`
	RID        int       `gorm:"column:rid;not null" validate:"gte=0"`
	EpNum      int       `gorm:"column:ep_num;not null" validate:"gte=0"`
	InitiateAt time.Time `gorm:"column:initiate_at"`
	LeaveAt    time.Time `gorm:"column:leave_at" validate:"gtefield=InitiateAt"`
	Quality    *string   `gorm:"column:quality;size:50"`
	Device     *string   `gorm:"column:device;size:50"`
}

// TableName returns the table name for Session
func (Session) TableName() string {
	return TableSessions
}
