package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dgarrido/wedding-server/models"
)

func TestSubmitRsvpSingleConfirmed(t *testing.T) {
	db := setupTestDB(t)
	invite := createTestInvite(t, db, models.InviteTypeSingle, false, nil)
	guest := createTestGuest(t, db, invite, "Ana", "Lopez", true, nil)

	draft := &RsvpDraft{
		Attending: boolPtr(true),
		Answers: []GuestAnswer{{
			GuestID:             guest.ID,
			DietaryRestrictions: []string{"gluten_free"},
		}},
		AccommodationNeeded: boolPtr(false),
	}

	result, err := SubmitRsvp(db, invite, []models.Guest{*guest}, draft)
	if err != nil {
		t.Fatalf("SubmitRsvp() error = %v", err)
	}

	var stored models.Invite
	if err := db.First(&stored, invite.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.RsvpStatus != models.RsvpStatusConfirmed {
		t.Errorf("invite status = %q, want confirmed", stored.RsvpStatus)
	}
	if stored.RsvpSubmittedAt == nil {
		t.Error("submission timestamp missing")
	}

	var resp models.RsvpResponse
	if err := db.Where("guest_id = ?", guest.ID).First(&resp).Error; err != nil {
		t.Fatal(err)
	}
	if !resp.Attending {
		t.Error("guest must be attending")
	}
	if got := resp.DietaryList(); !reflect.DeepEqual(got, []string{"gluten_free"}) {
		t.Errorf("dietary = %v, want [gluten_free]", got)
	}
	if resp.AccommodationNeeded {
		t.Error("accommodation must not be needed")
	}

	var paymentCount int64
	db.Model(&models.Payment{}).Where("invite_id = ?", invite.ID).Count(&paymentCount)
	if paymentCount != 0 {
		t.Errorf("payments = %d, want 0", paymentCount)
	}
	if len(result.Payments) != 0 {
		t.Errorf("result payments = %d, want 0", len(result.Payments))
	}
}

func TestSubmitRsvpCouplePartial(t *testing.T) {
	db := setupTestDB(t)
	invite := createTestInvite(t, db, models.InviteTypeCouple, false, nil)
	maria := createTestGuest(t, db, invite, "Maria", "Perez", true, nil)
	jose := createTestGuest(t, db, invite, "Jose", "Perez", false, nil)

	draft := &RsvpDraft{
		Attending:         boolPtr(true),
		AttendingGuestIDs: []uint{maria.ID},
		Answers: []GuestAnswer{{
			GuestID:             maria.ID,
			DietaryRestrictions: []string{models.DietaryNone},
		}},
		AccommodationNeeded: boolPtr(false),
	}

	if _, err := SubmitRsvp(db, invite, []models.Guest{*maria, *jose}, draft); err != nil {
		t.Fatalf("SubmitRsvp() error = %v", err)
	}

	var stored models.Invite
	db.First(&stored, invite.ID)
	if stored.RsvpStatus != models.RsvpStatusPartial {
		t.Errorf("invite status = %q, want partial", stored.RsvpStatus)
	}

	var responses []models.RsvpResponse
	db.Where("guest_id IN ?", []uint{maria.ID, jose.ID}).Order("guest_id ASC").Find(&responses)
	if len(responses) != 2 {
		t.Fatalf("responses = %d, want 2 (one per guest, attendee or not)", len(responses))
	}
	if !responses[0].Attending || responses[1].Attending {
		t.Errorf("attending flags = %t/%t, want true/false", responses[0].Attending, responses[1].Attending)
	}
	if responses[1].DietaryRestrictions != "" {
		t.Error("non-attending guest must get a cleared record")
	}
}

func TestSubmitRsvpDeclineClearsEverything(t *testing.T) {
	db := setupTestDB(t)
	group := &models.AccommodationGroup{Name: "Lago", Hotel: "Casa Azul", CostPerNight: 100, Nights: 2}
	invite := createTestInvite(t, db, models.InviteTypeSingle, true, group)
	guest := createTestGuest(t, db, invite, "Ana", "Lopez", true, nil)

	// first submission: attending with accommodation and excursion
	accept := &RsvpDraft{
		Attending:           boolPtr(true),
		Answers:             []GuestAnswer{{GuestID: guest.ID, DietaryRestrictions: []string{"vegan"}}},
		AccommodationNeeded: boolPtr(true),
		AccommodationTier:   models.TierFull,
		AtitlanAttending:    boolPtr(true),
		AtitlanChoices:      []AtitlanChoice{{GuestID: guest.ID, Tier: models.TierFull}},
	}
	if _, err := SubmitRsvp(db, invite, []models.Guest{*guest}, accept); err != nil {
		t.Fatalf("accept submit: %v", err)
	}

	// then the guest changes their mind
	decline := &RsvpDraft{Attending: boolPtr(false)}
	if _, err := SubmitRsvp(db, invite, []models.Guest{*guest}, decline); err != nil {
		t.Fatalf("decline submit: %v", err)
	}

	var stored models.Invite
	db.First(&stored, invite.ID)
	if stored.RsvpStatus != models.RsvpStatusDeclined {
		t.Errorf("invite status = %q, want declined", stored.RsvpStatus)
	}

	var resp models.RsvpResponse
	db.Where("guest_id = ?", guest.ID).First(&resp)
	if resp.Attending {
		t.Error("attending must be cleared")
	}
	if resp.DietaryRestrictions != "" || resp.AccommodationNeeded || resp.AtitlanAttending {
		t.Errorf("decline must clear prior form state: %+v", resp)
	}
	if resp.AccommodationTier != models.TierNone || resp.AtitlanTier != models.TierNone {
		t.Errorf("tiers must reset to none: %+v", resp)
	}

	var respCount int64
	db.Model(&models.RsvpResponse{}).Where("guest_id = ?", guest.ID).Count(&respCount)
	if respCount != 1 {
		t.Errorf("responses per guest = %d, want 1 (upsert, not insert)", respCount)
	}
}

func TestSubmitRsvpPayments(t *testing.T) {
	db := setupTestDB(t)
	group := &models.AccommodationGroup{Name: "Lago", Hotel: "Casa Azul", CostPerNight: 120, Nights: 3}
	invite := createTestInvite(t, db, models.InviteTypeSingle, true, group)
	guest := createTestGuest(t, db, invite, "Ana", "Lopez", true, nil)

	draft := &RsvpDraft{
		Attending:           boolPtr(true),
		Answers:             []GuestAnswer{{GuestID: guest.ID, DietaryRestrictions: []string{models.DietaryNone}}},
		AccommodationNeeded: boolPtr(true),
		AccommodationTier:   models.TierHalf,
		AtitlanAttending:    boolPtr(true),
		AtitlanChoices:      []AtitlanChoice{{GuestID: guest.ID, Tier: models.TierFull}},
	}

	if _, err := SubmitRsvp(db, invite, []models.Guest{*guest}, draft); err != nil {
		t.Fatalf("SubmitRsvp() error = %v", err)
	}

	var accommodation models.Payment
	if err := db.Where("invite_id = ? AND payment_type = ?", invite.ID, models.PaymentTypeAccommodation).
		First(&accommodation).Error; err != nil {
		t.Fatal(err)
	}
	// half of 120 * 3 nights
	if accommodation.AmountCommitted != 180 {
		t.Errorf("accommodation committed = %v, want 180", accommodation.AmountCommitted)
	}

	var atitlan models.Payment
	if err := db.Where("invite_id = ? AND payment_type = ?", invite.ID, models.PaymentTypeAtitlan).
		First(&atitlan).Error; err != nil {
		t.Fatal(err)
	}
	if atitlan.AmountCommitted != models.AtitlanCostPerGuest {
		t.Errorf("atitlan committed = %v, want %v", atitlan.AmountCommitted, models.AtitlanCostPerGuest)
	}

	// a retry amends the same rows instead of inserting duplicates
	draft.AccommodationTier = models.TierFull
	if _, err := SubmitRsvp(db, invite, []models.Guest{*guest}, draft); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	var count int64
	db.Model(&models.Payment{}).Where("invite_id = ?", invite.ID).Count(&count)
	if count != 2 {
		t.Errorf("payments after retry = %d, want 2", count)
	}
	db.Where("invite_id = ? AND payment_type = ?", invite.ID, models.PaymentTypeAccommodation).First(&accommodation)
	if accommodation.AmountCommitted != 360 {
		t.Errorf("amended accommodation committed = %v, want 360", accommodation.AmountCommitted)
	}
}

func TestSubmitRsvpPlusOneCompanion(t *testing.T) {
	db := setupTestDB(t)
	invite := createTestInvite(t, db, models.InviteTypePlusOne, false, nil)
	luis := createTestGuest(t, db, invite, "Luis", "Gomez", true, nil)

	draft := &RsvpDraft{
		Attending:          boolPtr(true),
		AddCompanion:       true,
		CompanionFirstName: "Elena",
		CompanionLastName:  "Ruiz",
		Answers: []GuestAnswer{
			{GuestID: luis.ID, DietaryRestrictions: []string{models.DietaryNone}},
			{GuestID: CompanionGuestID, DietaryRestrictions: []string{"vegetarian"}},
		},
		AccommodationNeeded: boolPtr(false),
	}

	result, err := SubmitRsvp(db, invite, []models.Guest{*luis}, draft)
	if err != nil {
		t.Fatalf("SubmitRsvp() error = %v", err)
	}

	var guests []models.Guest
	db.Where("invite_id = ?", invite.ID).Order("id ASC").Find(&guests)
	if len(guests) != 2 {
		t.Fatalf("guests = %d, want 2 after companion creation", len(guests))
	}
	companion := guests[1]
	if companion.FirstName != "Elena" || companion.LastName != "Ruiz" || companion.IsPrimary {
		t.Errorf("unexpected companion row: %+v", companion)
	}

	var resp models.RsvpResponse
	if err := db.Where("guest_id = ?", companion.ID).First(&resp).Error; err != nil {
		t.Fatalf("companion response missing: %v", err)
	}
	if !resp.Attending {
		t.Error("companion must be attending")
	}
	if got := resp.DietaryList(); !reflect.DeepEqual(got, []string{"vegetarian"}) {
		t.Errorf("companion dietary = %v, want [vegetarian]", got)
	}

	var stored models.Invite
	db.First(&stored, invite.ID)
	if stored.RsvpStatus != models.RsvpStatusConfirmed {
		t.Errorf("invite status = %q, want confirmed", stored.RsvpStatus)
	}
	if len(result.Responses) != 2 {
		t.Errorf("result responses = %d, want 2", len(result.Responses))
	}
}

func TestSubmitRsvpIgnoresExcursionWhenNotInvited(t *testing.T) {
	db := setupTestDB(t)
	invite := createTestInvite(t, db, models.InviteTypeSingle, false, nil)
	guest := createTestGuest(t, db, invite, "Ana", "Lopez", true, nil)

	// stray excursion state from the client must not reach storage
	draft := &RsvpDraft{
		Attending:           boolPtr(true),
		Answers:             []GuestAnswer{{GuestID: guest.ID, DietaryRestrictions: []string{models.DietaryNone}}},
		AccommodationNeeded: boolPtr(false),
		AtitlanAttending:    boolPtr(true),
		AtitlanChoices:      []AtitlanChoice{{GuestID: guest.ID, Tier: models.TierFull}},
	}

	if _, err := SubmitRsvp(db, invite, []models.Guest{*guest}, draft); err != nil {
		t.Fatalf("SubmitRsvp() error = %v", err)
	}

	var resp models.RsvpResponse
	if err := db.Where("guest_id = ?", guest.ID).First(&resp).Error; err != nil {
		t.Fatal(err)
	}
	if resp.AtitlanAttending || resp.AtitlanTier != models.TierNone {
		t.Errorf("excursion fields persisted for uninvited guest: %+v", resp)
	}

	var paymentCount int64
	db.Model(&models.Payment{}).Where("invite_id = ?", invite.ID).Count(&paymentCount)
	if paymentCount != 0 {
		t.Errorf("payments = %d, want 0 for an invite without excursion access", paymentCount)
	}
}

func TestSubmitRsvpPlusOneResubmit(t *testing.T) {
	db := setupTestDB(t)
	invite := createTestInvite(t, db, models.InviteTypePlusOne, false, nil)
	luis := createTestGuest(t, db, invite, "Luis", "Gomez", true, nil)

	companionDraft := func(first, last string) *RsvpDraft {
		return &RsvpDraft{
			Attending:          boolPtr(true),
			AddCompanion:       true,
			CompanionFirstName: first,
			CompanionLastName:  last,
			Answers: []GuestAnswer{
				{GuestID: luis.ID, DietaryRestrictions: []string{models.DietaryNone}},
				{GuestID: CompanionGuestID, DietaryRestrictions: []string{"vegetarian"}},
			},
			AccommodationNeeded: boolPtr(false),
		}
	}

	if _, err := SubmitRsvp(db, invite, []models.Guest{*luis}, companionDraft("Elena", "Ruiz")); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// a retry with the companion form still filled in must reuse the row
	var guests []models.Guest
	db.Where("invite_id = ?", invite.ID).Order("id ASC").Find(&guests)
	if _, err := SubmitRsvp(db, invite, guests, companionDraft("Elena", "Ruiz de Gomez")); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	var guestCount int64
	db.Model(&models.Guest{}).Where("invite_id = ?", invite.ID).Count(&guestCount)
	if guestCount != 2 {
		t.Fatalf("guests after resubmit = %d, want 2", guestCount)
	}

	var companion models.Guest
	db.Where("invite_id = ? AND is_primary = ?", invite.ID, false).First(&companion)
	if companion.LastName != "Ruiz de Gomez" {
		t.Errorf("companion last name = %q, want the resubmitted value", companion.LastName)
	}

	var resp models.RsvpResponse
	if err := db.Where("guest_id = ?", companion.ID).First(&resp).Error; err != nil {
		t.Fatal(err)
	}
	if !resp.Attending {
		t.Error("companion must stay attending after an identical resubmit")
	}

	var stored models.Invite
	db.First(&stored, invite.ID)
	if stored.RsvpStatus != models.RsvpStatusConfirmed {
		t.Errorf("invite status after resubmit = %q, want confirmed", stored.RsvpStatus)
	}
}

func TestSubmitRsvpNotReady(t *testing.T) {
	db := setupTestDB(t)
	invite := createTestInvite(t, db, models.InviteTypeSingle, false, nil)
	guest := createTestGuest(t, db, invite, "Ana", "Lopez", true, nil)

	_, err := SubmitRsvp(db, invite, []models.Guest{*guest}, &RsvpDraft{Attending: boolPtr(true)})
	if err == nil {
		t.Fatal("incomplete draft must not submit")
	}
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("error = %v, want ErrNotReady", err)
	}
	var notReady *NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatal("error must carry section details")
	}

	var count int64
	db.Model(&models.RsvpResponse{}).Count(&count)
	if count != 0 {
		t.Errorf("responses = %d, want 0 after rejected submit", count)
	}
}
