package services

import (
	"fmt"
	"strings"

	"github.com/dgarrido/wedding-server/models"
)

const (
	SectionAttendance    = "attendance"
	SectionGuests        = "guests"
	SectionDietary       = "dietary"
	SectionAccommodation = "accommodation"
	SectionAtitlan       = "atitlan"
)

// CompanionGuestID is the placeholder key a plus-one draft uses for the
// companion before the guest row exists. Submit remaps it to the real id.
const CompanionGuestID uint = 0

type GuestAnswer struct {
	GuestID             uint     `json:"guest_id"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	DietaryNotes        string   `json:"dietary_notes"`
}

type AtitlanChoice struct {
	GuestID uint   `json:"guest_id"`
	Tier    string `json:"tier"`
}

// RsvpDraft is the flat wizard state the client submits. Pointer fields
// distinguish "unanswered" from an explicit answer.
type RsvpDraft struct {
	Attending           *bool           `json:"attending"`
	AttendingGuestIDs   []uint          `json:"attending_guest_ids"`
	AddCompanion        bool            `json:"add_companion"`
	CompanionFirstName  string          `json:"companion_first_name"`
	CompanionLastName   string          `json:"companion_last_name"`
	Answers             []GuestAnswer   `json:"answers"`
	AccommodationNeeded *bool           `json:"accommodation_needed"`
	AccommodationTier   string          `json:"accommodation_tier"`
	AtitlanAttending    *bool           `json:"atitlan_attending"`
	AtitlanChoices      []AtitlanChoice `json:"atitlan_choices"`
}

// SectionStatus is the tagged Incomplete(reason) | Ready result of one
// wizard section.
type SectionStatus struct {
	Section    string `json:"section"`
	Applicable bool   `json:"applicable"`
	Complete   bool   `json:"complete"`
	Reason     string `json:"reason,omitempty"`
}

type Readiness struct {
	Sections []SectionStatus `json:"sections"`
	Ready    bool            `json:"ready"`
}

func incomplete(section, reason string) SectionStatus {
	return SectionStatus{Section: section, Applicable: true, Reason: reason}
}

func ready(section string) SectionStatus {
	return SectionStatus{Section: section, Applicable: true, Complete: true}
}

func skipped(section string) SectionStatus {
	return SectionStatus{Section: section, Complete: true}
}

// EvaluateReadiness runs every section predicate in dependency order. A
// declined attendance short-circuits: all later sections become
// inapplicable and the draft is immediately submittable.
func EvaluateReadiness(draft *RsvpDraft, invite *models.Invite, guests []models.Guest) Readiness {
	var out Readiness

	att := attendanceStatus(draft)
	out.Sections = append(out.Sections, att)

	switch {
	case !att.Complete:
		// nothing below attendance can be judged yet
	case !*draft.Attending:
		// decline path: nothing else to answer
		out.Sections = append(out.Sections,
			skipped(SectionGuests), skipped(SectionDietary), skipped(SectionAccommodation))
		if invite.InvitedToAtitlan {
			out.Sections = append(out.Sections, skipped(SectionAtitlan))
		}
	default:
		out.Sections = append(out.Sections,
			guestSelectionStatus(draft, invite, guests),
			dietaryStatus(draft, invite, guests),
			accommodationStatus(draft, invite))
		if invite.InvitedToAtitlan {
			out.Sections = append(out.Sections, atitlanStatus(draft, invite, guests))
		}
	}

	out.Ready = true
	for _, s := range out.Sections {
		if !s.Complete {
			out.Ready = false
			break
		}
	}
	return out
}

func attendanceStatus(draft *RsvpDraft) SectionStatus {
	if draft.Attending == nil {
		return incomplete(SectionAttendance, "attendance has not been answered")
	}
	return ready(SectionAttendance)
}

func guestSelectionStatus(draft *RsvpDraft, invite *models.Invite, guests []models.Guest) SectionStatus {
	switch invite.InviteType {
	case models.InviteTypeCouple:
		if len(draft.AttendingGuestIDs) == 0 {
			return incomplete(SectionGuests, "select at least one attending guest")
		}
		for _, id := range draft.AttendingGuestIDs {
			if !guestOnInvite(id, guests) {
				return incomplete(SectionGuests, fmt.Sprintf("guest %d does not belong to this invite", id))
			}
		}
		return ready(SectionGuests)
	case models.InviteTypePlusOne:
		if draft.AddCompanion {
			if strings.TrimSpace(draft.CompanionFirstName) == "" || strings.TrimSpace(draft.CompanionLastName) == "" {
				return incomplete(SectionGuests, "companion first and last name are required")
			}
		}
		return ready(SectionGuests)
	default:
		return ready(SectionGuests)
	}
}

func dietaryStatus(draft *RsvpDraft, invite *models.Invite, guests []models.Guest) SectionStatus {
	answers := draft.answerMap()
	for _, id := range draft.AttendeeIDs(invite, guests) {
		a, ok := answers[id]
		if !ok || len(models.NormalizeDietary(a.DietaryRestrictions)) == 0 {
			name := guestName(id, guests)
			return incomplete(SectionDietary, fmt.Sprintf("dietary restrictions missing for %s", name))
		}
	}
	return ready(SectionDietary)
}

func accommodationStatus(draft *RsvpDraft, invite *models.Invite) SectionStatus {
	if draft.AccommodationNeeded == nil {
		return incomplete(SectionAccommodation, "accommodation need has not been answered")
	}
	if !*draft.AccommodationNeeded {
		return ready(SectionAccommodation)
	}
	if !models.ValidTier(draft.AccommodationTier) {
		return incomplete(SectionAccommodation, "choose a contribution tier")
	}
	if g := invite.AccommodationGroup; g != nil && !g.TierAllowed(draft.AccommodationTier) {
		return incomplete(SectionAccommodation, "contribution tier is not offered for this group")
	}
	return ready(SectionAccommodation)
}

func atitlanStatus(draft *RsvpDraft, invite *models.Invite, guests []models.Guest) SectionStatus {
	if draft.AtitlanAttending == nil {
		return incomplete(SectionAtitlan, "excursion attendance has not been answered")
	}
	if !*draft.AtitlanAttending {
		return ready(SectionAtitlan)
	}
	if len(draft.AtitlanChoices) == 0 {
		return incomplete(SectionAtitlan, "select at least one guest for the excursion")
	}
	attendees := draft.AttendeeIDs(invite, guests)
	for _, c := range draft.AtitlanChoices {
		if !containsID(attendees, c.GuestID) {
			return incomplete(SectionAtitlan, fmt.Sprintf("excursion guest %s is not attending", guestName(c.GuestID, guests)))
		}
		if !models.ValidTier(c.Tier) {
			return incomplete(SectionAtitlan, fmt.Sprintf("contribution tier missing for %s", guestName(c.GuestID, guests)))
		}
	}
	return ready(SectionAtitlan)
}

// AttendeeIDs resolves which guest ids the draft marks as attending. For a
// single invite that is every existing guest; a plus-one adds the companion
// placeholder when one is being created.
func (d *RsvpDraft) AttendeeIDs(invite *models.Invite, guests []models.Guest) []uint {
	if d.Attending == nil || !*d.Attending {
		return nil
	}
	switch invite.InviteType {
	case models.InviteTypeCouple:
		return d.AttendingGuestIDs
	case models.InviteTypePlusOne:
		ids := make([]uint, 0, 2)
		for _, g := range guests {
			if g.IsPrimary {
				ids = append(ids, g.ID)
			}
		}
		if d.AddCompanion {
			ids = append(ids, CompanionGuestID)
		} else {
			// companion may already exist from a previous submission
			for _, g := range guests {
				if !g.IsPrimary && containsID(d.AttendingGuestIDs, g.ID) {
					ids = append(ids, g.ID)
				}
			}
		}
		return ids
	default:
		ids := make([]uint, 0, len(guests))
		for _, g := range guests {
			ids = append(ids, g.ID)
		}
		return ids
	}
}

func (d *RsvpDraft) answerMap() map[uint]GuestAnswer {
	m := make(map[uint]GuestAnswer, len(d.Answers))
	for _, a := range d.Answers {
		m[a.GuestID] = a
	}
	return m
}

func guestOnInvite(id uint, guests []models.Guest) bool {
	for _, g := range guests {
		if g.ID == id {
			return true
		}
	}
	return false
}

func guestName(id uint, guests []models.Guest) string {
	if id == CompanionGuestID {
		return "the companion"
	}
	for _, g := range guests {
		if g.ID == id {
			return g.FullName()
		}
	}
	return fmt.Sprintf("guest %d", id)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
