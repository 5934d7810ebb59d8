package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/models"
	"github.com/dgarrido/wedding-server/services"
)

// GET /api/admin/guests?q=
func AdminListGuests(c *gin.Context) {
	q := config.DB.Preload("RsvpResponse").Preload("TravelDetails").Order("id ASC")
	if term := c.Query("q"); term != "" {
		like := "%" + term + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var guests []models.Guest
	if err := q.Find(&guests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to list guests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"guests": guests})
}

type AdminUpdateGuestReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// PUT /api/admin/guests/:id
func AdminUpdateGuest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest ID"})
		return
	}

	var guest models.Guest
	if err := config.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load guest"})
		return
	}

	var req AdminUpdateGuestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if len(updates) > 0 {
		if err := config.DB.Model(&guest).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update guest"})
			return
		}
	}

	if guest.IdentityID != nil {
		services.Cache.Invalidate(*guest.IdentityID)
	}
	c.JSON(http.StatusOK, gin.H{"guest": guest})
}

// DELETE /api/admin/guests/:id — the only path that ever deletes a guest.
func AdminDeleteGuest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest ID"})
		return
	}

	var guest models.Guest
	if err := config.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load guest"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", guest.ID).Delete(&models.RsvpResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("guest_id = ?", guest.ID).Delete(&models.TravelDetails{}).Error; err != nil {
			return err
		}
		return tx.Delete(&guest).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to delete guest"})
		return
	}

	if guest.IdentityID != nil {
		services.Cache.Invalidate(*guest.IdentityID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Guest deleted"})
}

// GET /api/admin/invites
func AdminListInvites(c *gin.Context) {
	var invites []models.Invite
	q := config.DB.Preload("Guests").Preload("AccommodationGroup").Order("id ASC")
	if status := c.Query("status"); status != "" {
		q = q.Where("rsvp_status = ?", status)
	}
	if err := q.Find(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to list invites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// GET /api/admin/invites/:id — the full consistency bundle for one invite.
func AdminGetInvite(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invite ID"})
		return
	}

	var invite models.Invite
	if err := config.DB.
		Preload("Guests").
		Preload("Guests.RsvpResponse").
		Preload("Guests.TravelDetails").
		Preload("Payments").
		Preload("AccommodationGroup").
		First(&invite, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load invite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invite":   invite,
		"guests":   invite.Guests,
		"payments": invite.Payments,
	})
}

// GET /api/admin/payments
func AdminListPayments(c *gin.Context) {
	var payments []models.Payment
	q := config.DB.Order("invite_id ASC, payment_type ASC")
	if t := c.Query("type"); t != "" {
		q = q.Where("payment_type = ?", t)
	}
	if err := q.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

type AdminUpdatePaymentReq struct {
	AmountPaid *float64 `json:"amount_paid"`
	Method     *string  `json:"method"`
	Notes      *string  `json:"notes"`
}

// PUT /api/admin/payments/:id — manual amendment of paid amount and method.
func AdminUpdatePayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment ID"})
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load payment"})
		return
	}

	var req AdminUpdatePaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	if req.AmountPaid != nil && *req.AmountPaid < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Paid amount cannot be negative"})
		return
	}

	updates := map[string]interface{}{}
	if req.AmountPaid != nil {
		updates["amount_paid"] = *req.AmountPaid
	}
	if req.Method != nil {
		updates["method"] = *req.Method
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := config.DB.Model(&payment).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update payment"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// GET /api/admin/accommodation-groups
func AdminListAccommodationGroups(c *gin.Context) {
	var groups []models.AccommodationGroup
	if err := config.DB.Order("id ASC").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to list accommodation groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accommodation_groups": groups})
}

type AdminCreateGroupReq struct {
	Name         string   `json:"name" binding:"required"`
	Hotel        string   `json:"hotel" binding:"required"`
	CostPerNight float64  `json:"cost_per_night" binding:"required,gt=0"`
	Nights       int      `json:"nights" binding:"required,gt=0"`
	AllowedTiers []string `json:"allowed_tiers"`
}

// POST /api/admin/accommodation-groups
func AdminCreateAccommodationGroup(c *gin.Context) {
	var req AdminCreateGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	for _, t := range req.AllowedTiers {
		if !models.ValidTier(t) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid contribution tier: " + t})
			return
		}
	}

	group := models.AccommodationGroup{
		Name:         req.Name,
		Hotel:        req.Hotel,
		CostPerNight: req.CostPerNight,
		Nights:       req.Nights,
	}
	group.SetAllowedTierList(req.AllowedTiers)

	if err := config.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create accommodation group"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"accommodation_group": group})
}
