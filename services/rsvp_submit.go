package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dgarrido/wedding-server/models"
)

var ErrNotReady = errors.New("rsvp is not ready to submit")

// NotReadyError carries the per-section reasons back to the client.
type NotReadyError struct {
	Sections []SectionStatus
}

func (e *NotReadyError) Error() string {
	var reasons []string
	for _, s := range e.Sections {
		if !s.Complete {
			reasons = append(reasons, s.Reason)
		}
	}
	return "rsvp is not ready to submit: " + strings.Join(reasons, "; ")
}

func (e *NotReadyError) Is(target error) bool { return target == ErrNotReady }

type SubmitResult struct {
	Invite    models.Invite         `json:"invite"`
	Responses []models.RsvpResponse `json:"responses"`
	Payments  []models.Payment      `json:"payments"`
}

// SubmitRsvp is the terminal submit action. It re-checks readiness, then in
// one transaction upserts one RsvpResponse per guest on the invite (cleared
// negative records for non-attendees), derives and writes the aggregate
// invite status, and upserts payment commitments. Upserts are keyed by
// guest (responses) and by invite+type (payments), so a retry amends
// instead of duplicating.
func SubmitRsvp(db *gorm.DB, invite *models.Invite, guests []models.Guest, draft *RsvpDraft) (*SubmitResult, error) {
	// excursion answers only exist for eligible invites; anything else in the
	// draft is stray client state and must not reach storage
	if !invite.InvitedToAtitlan {
		draft.AtitlanAttending = nil
		draft.AtitlanChoices = nil
	}

	readiness := EvaluateReadiness(draft, invite, guests)
	if !readiness.Ready {
		return nil, &NotReadyError{Sections: readiness.Sections}
	}

	var result SubmitResult
	err := db.Transaction(func(tx *gorm.DB) error {
		allGuests := guests

		// a plus-one companion is created as part of the submission; a
		// re-submission reuses the existing row so retries stay idempotent
		if invite.InviteType == models.InviteTypePlusOne && draft.AddCompanion && *draft.Attending {
			first := strings.TrimSpace(draft.CompanionFirstName)
			last := strings.TrimSpace(draft.CompanionLastName)

			var companionID uint
			for _, g := range allGuests {
				if !g.IsPrimary {
					companionID = g.ID
					if err := tx.Model(&models.Guest{}).Where("id = ?", companionID).
						Updates(map[string]interface{}{"first_name": first, "last_name": last}).Error; err != nil {
						return err
					}
					break
				}
			}
			if companionID == 0 {
				companion := models.Guest{InviteID: invite.ID, FirstName: first, LastName: last}
				if err := tx.Create(&companion).Error; err != nil {
					return err
				}
				allGuests = append(allGuests, companion)
				companionID = companion.ID
			}
			draft.remapCompanion(companionID)
		}

		attendees := draft.AttendeeIDs(invite, allGuests)
		answers := draft.answerMap()

		attending := 0
		for _, g := range allGuests {
			resp := clearedResponse(g.ID)
			if containsID(attendees, g.ID) {
				attending++
				resp = answeredResponse(g.ID, answers[g.ID], draft)
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "guest_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"attending", "dietary_restrictions", "dietary_notes",
					"accommodation_needed", "accommodation_tier",
					"atitlan_attending", "atitlan_tier", "updated_at",
				}),
			}).Create(&resp).Error; err != nil {
				return err
			}
			result.Responses = append(result.Responses, resp)
		}

		now := time.Now()
		invite.RsvpStatus = models.DeriveRsvpStatus(attending, len(allGuests))
		invite.RsvpSubmittedAt = &now
		if err := tx.Model(&models.Invite{}).Where("id = ?", invite.ID).
			Updates(map[string]interface{}{
				"rsvp_status":       invite.RsvpStatus,
				"rsvp_submitted_at": now,
			}).Error; err != nil {
			return err
		}

		payments, err := commitPayments(tx, invite, draft)
		if err != nil {
			return err
		}
		result.Payments = payments
		result.Invite = *invite
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// remapCompanion replaces the placeholder id with the freshly created
// row's, so attendee resolution and answers point at the real guest.
func (d *RsvpDraft) remapCompanion(id uint) {
	d.AddCompanion = false
	d.AttendingGuestIDs = append(d.AttendingGuestIDs, id)
	for i := range d.Answers {
		if d.Answers[i].GuestID == CompanionGuestID {
			d.Answers[i].GuestID = id
		}
	}
	for i := range d.AtitlanChoices {
		if d.AtitlanChoices[i].GuestID == CompanionGuestID {
			d.AtitlanChoices[i].GuestID = id
		}
	}
}

func clearedResponse(guestID uint) models.RsvpResponse {
	return models.RsvpResponse{
		GuestID:           guestID,
		Attending:         false,
		AccommodationTier: models.TierNone,
		AtitlanTier:       models.TierNone,
	}
}

func answeredResponse(guestID uint, answer GuestAnswer, draft *RsvpDraft) models.RsvpResponse {
	resp := models.RsvpResponse{
		GuestID:           guestID,
		Attending:         true,
		DietaryNotes:      answer.DietaryNotes,
		AccommodationTier: models.TierNone,
		AtitlanTier:       models.TierNone,
	}
	resp.SetDietaryList(models.NormalizeDietary(answer.DietaryRestrictions))

	if draft.AccommodationNeeded != nil && *draft.AccommodationNeeded {
		resp.AccommodationNeeded = true
		resp.AccommodationTier = draft.AccommodationTier
	}
	for _, c := range draft.AtitlanChoices {
		if c.GuestID == guestID && draft.AtitlanAttending != nil && *draft.AtitlanAttending {
			resp.AtitlanAttending = true
			resp.AtitlanTier = c.Tier
		}
	}
	return resp
}

// commitPayments writes the accommodation and excursion commitments when a
// non-zero amount exists.
func commitPayments(tx *gorm.DB, invite *models.Invite, draft *RsvpDraft) ([]models.Payment, error) {
	var payments []models.Payment

	if draft.AccommodationNeeded != nil && *draft.AccommodationNeeded && invite.AccommodationGroup != nil {
		g := invite.AccommodationGroup
		amount := models.TierFraction(draft.AccommodationTier) * g.CostPerNight * float64(g.Nights)
		if amount > 0 {
			p, err := upsertPayment(tx, invite.ID, models.PaymentTypeAccommodation, amount)
			if err != nil {
				return nil, err
			}
			payments = append(payments, p)
		}
	}

	if draft.AtitlanAttending != nil && *draft.AtitlanAttending {
		var amount float64
		for _, c := range draft.AtitlanChoices {
			amount += models.TierFraction(c.Tier) * models.AtitlanCostPerGuest
		}
		if amount > 0 {
			p, err := upsertPayment(tx, invite.ID, models.PaymentTypeAtitlan, amount)
			if err != nil {
				return nil, err
			}
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func upsertPayment(tx *gorm.DB, inviteID uint, paymentType string, amount float64) (models.Payment, error) {
	p := models.Payment{
		InviteID:        inviteID,
		PaymentType:     paymentType,
		AmountCommitted: amount,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "invite_id"}, {Name: "payment_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount_committed", "updated_at"}),
	}).Create(&p).Error
	return p, err
}
