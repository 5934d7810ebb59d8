package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/middleware"
	"github.com/dgarrido/wedding-server/models"
	"github.com/dgarrido/wedding-server/services"
)

// currentGuestData loads the caller's bundle and writes the error response
// itself when the chain is broken. The second return is false when a
// response has already been sent.
func currentGuestData(c *gin.Context) (*services.GuestData, bool) {
	identity := c.MustGet(middleware.CtxIdentity).(models.Identity)

	data, err := services.Cache.Load(config.DB, identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoGuestRecord) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No guest record for this account"})
			return nil, false
		}
		// broken invite chain or plain store error: recoverable, retry is
		// user-initiated
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Unable to load guest information",
			"retryable": true,
		})
		return nil, false
	}
	return data, true
}

// GetRsvp returns everything the wizard needs: the invite, co-guests with
// any existing responses, and the accommodation group.
func GetRsvp(c *gin.Context) {
	data, ok := currentGuestData(c)
	if !ok {
		return
	}

	var responses []models.RsvpResponse
	guestIDs := make([]uint, 0, len(data.AllGuests))
	for _, g := range data.AllGuests {
		guestIDs = append(guestIDs, g.ID)
	}
	if err := config.DB.Where("guest_id IN ?", guestIDs).Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load RSVP responses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_guest":       data.CurrentGuest,
		"invite":              data.Invite,
		"guests":              data.AllGuests,
		"responses":           responses,
		"accommodation_group": data.Invite.AccommodationGroup,
	})
}

// ValidateRsvp runs the section predicates over a draft without persisting
// anything. The client calls this as the user types.
func ValidateRsvp(c *gin.Context) {
	data, ok := currentGuestData(c)
	if !ok {
		return
	}

	var draft services.RsvpDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid draft: " + err.Error()})
		return
	}

	readiness := services.EvaluateReadiness(&draft, &data.Invite, data.AllGuests)
	c.JSON(http.StatusOK, readiness)
}

// SubmitRsvp is the terminal submit. 409 with section reasons when the
// draft is not ready; otherwise all writes happen in one transaction.
func SubmitRsvp(c *gin.Context) {
	data, ok := currentGuestData(c)
	if !ok {
		return
	}

	var draft services.RsvpDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid draft: " + err.Error()})
		return
	}

	// the bundle is shared through the cache; the service mutates the invite,
	// so it must work on a private copy
	invite := data.Invite
	result, err := services.SubmitRsvp(config.DB, &invite, data.AllGuests, &draft)
	if err != nil {
		var notReady *services.NotReadyError
		if errors.As(err, &notReady) {
			c.JSON(http.StatusConflict, gin.H{
				"message":  "RSVP is not ready to submit",
				"sections": notReady.Sections,
			})
			return
		}
		log.Error().Err(err).Uint("invite_id", invite.ID).Msg("rsvp submit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit RSVP, please try again"})
		return
	}

	// every co-guest with a login sees the new state on their next read
	for _, g := range data.AllGuests {
		if g.IdentityID != nil {
			services.Cache.Invalidate(*g.IdentityID)
		}
	}

	c.JSON(http.StatusOK, result)
}
