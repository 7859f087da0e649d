package model

import (
	"time"
)

// User is the base identity row of every account
type User struct {
	UID        int        `gorm:"column:uid;primaryKey;autoIncrement:false" validate:"gte=0"`
	Email      string     `gorm:"column:email;size:255;not null;uniqueIndex" validate:"required,email"`
	Nickname   *string    `gorm:"column:nickname;size:255"`
	Street     *string    `gorm:"column:street;size:255"`
	City       *string    `gorm:"column:city;size:255"`
	State      *string    `gorm:"column:state;size:255"`
	Zip        *string    `gorm:"column:zip;size:255"`
	Genres     *string    `gorm:"column:genres;size:255"`
	JoinedDate *time.Time `gorm:"column:joined_date;type:date"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return TableUsers
}

// Viewer is the subscriber role of a user
type Viewer struct {
	UID          int     `gorm:"column:uid;primaryKey;autoIncrement:false"`
	First        *string `gorm:"column:first;size:255"`
	Last         *string `gorm:"column:last;size:255"`
	Subscription *string `gorm:"column:subscription;size:255"`
}

// TableName returns the table name for Viewer
func (Viewer) TableName() string {
	return TableViewers
}

// AccountRole is implemented by the role variants that share a user's uid.
type AccountRole interface {
	TableName() string
	setUID(uid int)
}

func (v *Viewer) setUID(uid int) { v.UID = uid }

// Account is a user together with exactly one role variant. The role row is
// keyed by the user's uid and is removed by cascade when the user goes away.
type Account struct {
	User User
	Role AccountRole
}

// NewViewerAccount builds an Account whose role is a Viewer.
func NewViewerAccount(user User, viewer Viewer) Account {
	viewer.UID = user.UID
	return Account{User: user, Role: &viewer}
}

// Bind copies the user's uid onto the role row.
func (a *Account) Bind() {
	if a.Role != nil {
		a.Role.setUID(a.User.UID)
	}
}
