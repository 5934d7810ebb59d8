package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/models"
)

// setupTestDB opens a private in-memory database and migrates the schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

var inviteSeq int

func createTestInvite(t *testing.T, db *gorm.DB, inviteType string, atitlan bool, group *models.AccommodationGroup) *models.Invite {
	t.Helper()
	inviteSeq++
	invite := &models.Invite{
		InviteCode:       fmt.Sprintf("CODE%s%d", strings.ToUpper(inviteType[:2]), inviteSeq),
		InviteType:       inviteType,
		InvitedToAtitlan: atitlan,
		RsvpStatus:       models.RsvpStatusPending,
	}
	if group != nil {
		if group.ID == 0 {
			if err := db.Create(group).Error; err != nil {
				t.Fatalf("failed to create accommodation group: %v", err)
			}
		}
		invite.AccommodationGroupID = &group.ID
		invite.AccommodationGroup = group
	}
	if err := db.Create(invite).Error; err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}
	return invite
}

func createTestGuest(t *testing.T, db *gorm.DB, invite *models.Invite, first, last string, primary bool, identityID *uint) *models.Guest {
	t.Helper()
	g := &models.Guest{
		InviteID:   invite.ID,
		FirstName:  first,
		LastName:   last,
		IsPrimary:  primary,
		IdentityID: identityID,
	}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("failed to create guest %s %s: %v", first, last, err)
	}
	return g
}

func createTestIdentity(t *testing.T, db *gorm.DB, email string) *models.Identity {
	t.Helper()
	id := &models.Identity{Email: email, PasswordHash: "x"}
	if err := db.Create(id).Error; err != nil {
		t.Fatalf("failed to create identity %s: %v", email, err)
	}
	return id
}

func boolPtr(b bool) *bool { return &b }
