package model

import "time"

type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

func (m Membership) Valid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold:
		return true
	}
	return false
}

// Userと1対1
type Customer struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	BirthDate  *time.Time `gorm:"type:date" json:"birth_date"`
	Membership Membership `gorm:"type:varchar(1);not null;default:'B'" json:"membership"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Addresses  []Address  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	Orders     []Order    `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
}
