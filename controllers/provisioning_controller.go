package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/models"
	"github.com/dgarrido/wedding-server/services"
	"github.com/dgarrido/wedding-server/utils"
)

type CreateInvitationReq struct {
	PrimaryFirstName   string `json:"primaryFirstName" binding:"required"`
	PrimaryLastName    string `json:"primaryLastName" binding:"required"`
	PrimaryEmail       string `json:"primaryEmail" binding:"required,email"`
	InviteType         string `json:"inviteType" binding:"required"`
	SecondFirstName    string `json:"secondFirstName"`
	SecondLastName     string `json:"secondLastName"`
	AccommodationGroup *uint  `json:"accommodationGroup"`
	InvitedToAtitlan   bool   `json:"invitedToAtitlan"`
	InviteCode         string `json:"inviteCode"`
}

// CreateInvitation provisions an identity, an invite and one or two guest
// rows as a linear saga. The invite code doubles as the one-time password
// handed to the guest.
func CreateInvitation(c *gin.Context) {
	var req CreateInvitationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if !models.ValidInviteType(req.InviteType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invite type"})
		return
	}
	if req.InviteType == models.InviteTypeCouple &&
		(strings.TrimSpace(req.SecondFirstName) == "" || strings.TrimSpace(req.SecondLastName) == "") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Couple invitations need the second guest's name"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if code == "" {
		generated, err := utils.GenerateInviteCode(8)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to generate invite code"})
			return
		}
		code = generated
	} else if !utils.ValidInviteCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invite code must be alphanumeric"})
		return
	}

	// conflict checks before anything is created
	var count int64
	if err := config.DB.Model(&models.Identity{}).Where("email = ?", req.PrimaryEmail).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create invitation"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "An account with this email already exists"})
		return
	}
	if err := config.DB.Model(&models.Invite{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create invitation"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Invite code is already in use"})
		return
	}

	hash, err := utils.HashPassword(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create invitation"})
		return
	}

	identity := models.Identity{Email: req.PrimaryEmail, PasswordHash: hash}
	invite := models.Invite{
		InviteCode:           code,
		InviteType:           req.InviteType,
		AccommodationGroupID: req.AccommodationGroup,
		InvitedToAtitlan:     req.InvitedToAtitlan,
		RsvpStatus:           models.RsvpStatusPending,
	}
	email := req.PrimaryEmail
	primary := models.Guest{
		FirstName: strings.TrimSpace(req.PrimaryFirstName),
		LastName:  strings.TrimSpace(req.PrimaryLastName),
		Email:     &email,
		IsPrimary: true,
	}

	steps := []services.SagaStep{
		{
			Name:       "create identity",
			Action:     func() error { return config.DB.Create(&identity).Error },
			Compensate: func() error { return config.DB.Delete(&models.Identity{}, identity.ID).Error },
		},
		{
			Name:       "create invite",
			Action:     func() error { return config.DB.Create(&invite).Error },
			Compensate: func() error { return config.DB.Delete(&models.Invite{}, invite.ID).Error },
		},
		{
			Name: "create primary guest",
			Action: func() error {
				primary.InviteID = invite.ID
				primary.IdentityID = &identity.ID
				return config.DB.Create(&primary).Error
			},
			Compensate: func() error { return config.DB.Delete(&models.Guest{}, primary.ID).Error },
		},
	}
	if req.InviteType == models.InviteTypeCouple {
		// the primary invitation is usable without the second row, so this
		// step never rolls the saga back
		steps = append(steps, services.SagaStep{
			Name:       "create second guest",
			BestEffort: true,
			Action: func() error {
				second := models.Guest{
					InviteID:  invite.ID,
					FirstName: strings.TrimSpace(req.SecondFirstName),
					LastName:  strings.TrimSpace(req.SecondLastName),
				}
				return config.DB.Create(&second).Error
			},
		})
	}

	if err := services.RunSaga("provision-invitation", steps); err != nil {
		log.Error().Err(err).Str("email", req.PrimaryEmail).Msg("invitation provisioning failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create invitation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"inviteCode": code,
		"data": gin.H{
			"inviteId":       invite.ID,
			"primaryGuestId": primary.ID,
		},
	})
}
