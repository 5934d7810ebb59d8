package models

import "time"

type Guest struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	InviteID   uint      `gorm:"column:invite_id;not null;index" json:"invite_id"`
	FirstName  string    `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName   string    `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Email      *string   `gorm:"column:email;size:255" json:"email,omitempty"`
	IdentityID *uint     `gorm:"column:identity_id;index" json:"identity_id,omitempty"`
	IsPrimary  bool      `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	RsvpResponse  *RsvpResponse  `gorm:"foreignKey:GuestID" json:"rsvp_response,omitempty"`
	TravelDetails *TravelDetails `gorm:"foreignKey:GuestID" json:"travel_details,omitempty"`
}

func (Guest) TableName() string {
	return "guests"
}

func (g Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}
