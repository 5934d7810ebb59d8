package models

import "time"

type TravelDetails struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	GuestID       uint       `gorm:"column:guest_id;uniqueIndex;not null" json:"guest_id"`
	ArrivalAt     *time.Time `gorm:"column:arrival_at" json:"arrival_at,omitempty"`
	DepartureAt   *time.Time `gorm:"column:departure_at" json:"departure_at,omitempty"`
	Airline       string     `gorm:"column:airline;size:100" json:"airline"`
	FlightNumber  string     `gorm:"column:flight_number;size:20" json:"flight_number"`
	NeedsTransfer bool       `gorm:"column:needs_transfer;not null;default:false" json:"needs_transfer"`
	Notes         string     `gorm:"column:notes;type:text" json:"notes"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TravelDetails) TableName() string {
	return "travel_details"
}
