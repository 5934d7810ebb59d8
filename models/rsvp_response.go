package models

import (
	"encoding/json"
	"time"
)

// DietaryNone is the reserved marker meaning "answered: no restrictions",
// as opposed to an empty list which means "not answered yet".
const DietaryNone = "none"

const (
	TierNone = "none"
	TierHalf = "half"
	TierFull = "full"
)

type RsvpResponse struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GuestID             uint      `gorm:"column:guest_id;uniqueIndex;not null" json:"guest_id"`
	Attending           bool      `gorm:"column:attending;not null;default:false" json:"attending"`
	DietaryRestrictions string    `gorm:"column:dietary_restrictions;type:text" json:"-"`
	DietaryNotes        string    `gorm:"column:dietary_notes;type:text" json:"dietary_notes"`
	AccommodationNeeded bool      `gorm:"column:accommodation_needed;not null;default:false" json:"accommodation_needed"`
	AccommodationTier   string    `gorm:"column:accommodation_tier;size:10;not null;default:'none'" json:"accommodation_tier"`
	AtitlanAttending    bool      `gorm:"column:atitlan_attending;not null;default:false" json:"atitlan_attending"`
	AtitlanTier         string    `gorm:"column:atitlan_tier;size:10;not null;default:'none'" json:"atitlan_tier"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RsvpResponse) TableName() string {
	return "rsvp_responses"
}

// DietaryList decodes the stored JSON array. An empty column decodes to nil.
func (r *RsvpResponse) DietaryList() []string {
	if r.DietaryRestrictions == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(r.DietaryRestrictions), &tags); err != nil {
		return nil
	}
	return tags
}

func (r *RsvpResponse) SetDietaryList(tags []string) {
	if len(tags) == 0 {
		r.DietaryRestrictions = ""
		return
	}
	b, _ := json.Marshal(tags)
	r.DietaryRestrictions = string(b)
}

// MarshalJSON exposes dietary_restrictions as a decoded array.
func (r RsvpResponse) MarshalJSON() ([]byte, error) {
	type alias RsvpResponse
	return json.Marshal(struct {
		alias
		DietaryRestrictions []string `json:"dietary_restrictions"`
	}{alias(r), (&r).DietaryList()})
}

func ValidTier(t string) bool {
	switch t {
	case TierNone, TierHalf, TierFull:
		return true
	}
	return false
}

// TierFraction maps a contribution tier to the fraction of the published cost.
func TierFraction(tier string) float64 {
	switch tier {
	case TierHalf:
		return 0.5
	case TierFull:
		return 1.0
	default:
		return 0
	}
}

// NormalizeDietary drops the "none" marker when real restrictions are present
// and removes duplicates while keeping order.
func NormalizeDietary(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	hasOther := false
	for _, t := range tags {
		if t != DietaryNone {
			hasOther = true
		}
	}
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		if t == DietaryNone && hasOther {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
