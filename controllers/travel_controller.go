package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/models"
	"github.com/dgarrido/wedding-server/services"
)

// travelGuest authorizes the :guestID param: it must name a guest on the
// caller's own invite.
func travelGuest(c *gin.Context) (*models.Guest, *services.GuestData, bool) {
	data, ok := currentGuestData(c)
	if !ok {
		return nil, nil, false
	}

	id, err := strconv.Atoi(c.Param("guestID"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest ID"})
		return nil, nil, false
	}

	for i := range data.AllGuests {
		if data.AllGuests[i].ID == uint(id) {
			return &data.AllGuests[i], data, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"message": "Guest is not on your invitation"})
	return nil, nil, false
}

func GetTravel(c *gin.Context) {
	guest, _, ok := travelGuest(c)
	if !ok {
		return
	}

	var travel models.TravelDetails
	if err := config.DB.Where("guest_id = ?", guest.ID).First(&travel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"guest_id": guest.ID, "travel": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load travel details"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"guest_id": guest.ID, "travel": travel})
}

type TravelReq struct {
	ArrivalAt     *time.Time `json:"arrival_at"`
	DepartureAt   *time.Time `json:"departure_at"`
	Airline       string     `json:"airline"`
	FlightNumber  string     `json:"flight_number"`
	NeedsTransfer bool       `json:"needs_transfer"`
	Notes         string     `json:"notes"`
}

// UpsertTravel creates or replaces a guest's travel details. Independent of
// RSVP state.
func UpsertTravel(c *gin.Context) {
	guest, data, ok := travelGuest(c)
	if !ok {
		return
	}

	var req TravelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	if req.ArrivalAt != nil && req.DepartureAt != nil && !req.DepartureAt.After(*req.ArrivalAt) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Departure must be after arrival"})
		return
	}

	travel := models.TravelDetails{
		GuestID:       guest.ID,
		ArrivalAt:     req.ArrivalAt,
		DepartureAt:   req.DepartureAt,
		Airline:       req.Airline,
		FlightNumber:  req.FlightNumber,
		NeedsTransfer: req.NeedsTransfer,
		Notes:         req.Notes,
	}
	if err := config.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"arrival_at", "departure_at", "airline", "flight_number",
			"needs_transfer", "notes", "updated_at",
		}),
	}).Create(&travel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to save travel details"})
		return
	}

	if data.CurrentGuest.IdentityID != nil {
		services.Cache.Invalidate(*data.CurrentGuest.IdentityID)
	}
	c.JSON(http.StatusOK, gin.H{"guest_id": guest.ID, "travel": travel})
}
