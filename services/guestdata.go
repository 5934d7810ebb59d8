package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dgarrido/wedding-server/models"
)

var (
	// ErrNoGuestRecord means the identity has no guest row. Valid for
	// admin accounts, so callers must not treat it as a lookup failure.
	ErrNoGuestRecord = errors.New("no guest record for identity")
	// ErrInviteMissing and ErrNoGuests are data-integrity gaps: the guest
	// exists but its invite chain is broken.
	ErrInviteMissing = errors.New("guest has no invite")
	ErrNoGuests      = errors.New("invite has no guests")
)

// GuestData is the bundle nearly every guest-facing screen needs.
type GuestData struct {
	CurrentGuest models.Guest   `json:"current_guest"`
	Invite       models.Invite  `json:"invite"`
	AllGuests    []models.Guest `json:"all_guests"`
}

// LoadGuestData resolves identity -> guest -> invite -> co-invited guests,
// primary first. Read-only and idempotent.
func LoadGuestData(db *gorm.DB, identityID uint) (*GuestData, error) {
	var guest models.Guest
	if err := db.Where("identity_id = ?", identityID).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGuestRecord
		}
		return nil, err
	}

	var invite models.Invite
	if err := db.Preload("AccommodationGroup").First(&invite, guest.InviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteMissing
		}
		return nil, err
	}

	var all []models.Guest
	if err := db.Where("invite_id = ?", invite.ID).
		Order("is_primary DESC, id ASC").
		Find(&all).Error; err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrNoGuests
	}

	return &GuestData{CurrentGuest: guest, Invite: invite, AllGuests: all}, nil
}
