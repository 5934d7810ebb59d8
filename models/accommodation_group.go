package models

import (
	"encoding/json"
	"time"
)

// AccommodationGroup is admin-curated reference data; guests only read it.
type AccommodationGroup struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	Hotel        string    `gorm:"column:hotel;size:255;not null" json:"hotel"`
	CostPerNight float64   `gorm:"column:cost_per_night;not null" json:"cost_per_night"`
	Nights       int       `gorm:"column:nights;not null" json:"nights"`
	AllowedTiers string    `gorm:"column:allowed_tiers;type:text" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AccommodationGroup) TableName() string {
	return "accommodation_groups"
}

// AllowedTierList decodes the stored JSON array; an empty column means
// every tier is offered.
func (g *AccommodationGroup) AllowedTierList() []string {
	if g.AllowedTiers == "" {
		return []string{TierNone, TierHalf, TierFull}
	}
	var tiers []string
	if err := json.Unmarshal([]byte(g.AllowedTiers), &tiers); err != nil {
		return []string{TierNone, TierHalf, TierFull}
	}
	return tiers
}

func (g *AccommodationGroup) SetAllowedTierList(tiers []string) {
	if len(tiers) == 0 {
		g.AllowedTiers = ""
		return
	}
	b, _ := json.Marshal(tiers)
	g.AllowedTiers = string(b)
}

func (g *AccommodationGroup) TierAllowed(tier string) bool {
	for _, t := range g.AllowedTierList() {
		if t == tier {
			return true
		}
	}
	return false
}

func (g AccommodationGroup) MarshalJSON() ([]byte, error) {
	type alias AccommodationGroup
	return json.Marshal(struct {
		alias
		AllowedTiers []string `json:"allowed_tiers"`
	}{alias(g), (&g).AllowedTierList()})
}
