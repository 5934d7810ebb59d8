package models

import "time"

const (
	InviteTypeSingle  = "single"
	InviteTypeCouple  = "couple"
	InviteTypePlusOne = "plusone"
)

const (
	RsvpStatusPending   = "pending"
	RsvpStatusConfirmed = "confirmed"
	RsvpStatusPartial   = "partial"
	RsvpStatusDeclined  = "declined"
)

type Invite struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	InviteCode           string     `gorm:"column:invite_code;size:32;uniqueIndex;not null" json:"invite_code"`
	InviteType           string     `gorm:"column:invite_type;size:20;not null;default:'single'" json:"invite_type"`
	AccommodationGroupID *uint      `gorm:"column:accommodation_group_id" json:"accommodation_group_id,omitempty"`
	InvitedToAtitlan     bool       `gorm:"column:invited_to_atitlan;not null;default:false" json:"invited_to_atitlan"`
	RsvpStatus           string     `gorm:"column:rsvp_status;size:20;not null;default:'pending'" json:"rsvp_status"`
	RsvpSubmittedAt      *time.Time `gorm:"column:rsvp_submitted_at" json:"rsvp_submitted_at,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`

	AccommodationGroup *AccommodationGroup `gorm:"foreignKey:AccommodationGroupID" json:"accommodation_group,omitempty"`
	Guests             []Guest             `gorm:"foreignKey:InviteID" json:"-"`
	Payments           []Payment           `gorm:"foreignKey:InviteID" json:"-"`
}

func (Invite) TableName() string {
	return "invites"
}

func ValidInviteType(t string) bool {
	switch t {
	case InviteTypeSingle, InviteTypeCouple, InviteTypePlusOne:
		return true
	}
	return false
}

// DeriveRsvpStatus computes the aggregate status from per-guest attendance.
// declined = nobody attending, confirmed = everybody, partial otherwise.
func DeriveRsvpStatus(attending, total int) string {
	switch {
	case total == 0 || attending == 0:
		return RsvpStatusDeclined
	case attending == total:
		return RsvpStatusConfirmed
	default:
		return RsvpStatusPartial
	}
}
