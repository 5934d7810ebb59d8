package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dgarrido/wedding-server/models"
	"github.com/dgarrido/wedding-server/utils"
)

func TestLogin(t *testing.T) {
	r, db := setupTestServer(t)

	hash, err := utils.HashPassword("CASA2026")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.Identity{Email: "maria@example.com", PasswordHash: hash}).Error; err != nil {
		t.Fatal(err)
	}

	t.Run("invite code works as password", func(t *testing.T) {
		w := postJSON(r, "/api/auth/login", "", map[string]string{
			"email":    "maria@example.com",
			"password": "CASA2026",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Token == "" {
			t.Fatal("token missing")
		}
		claims, err := utils.VerifyToken(resp.Token)
		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}
		if claims.Email != "maria@example.com" {
			t.Errorf("claims email = %q", claims.Email)
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := postJSON(r, "/api/auth/login", "", map[string]string{
			"email":    "maria@example.com",
			"password": "WRONG",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("unknown email is rejected with the same message", func(t *testing.T) {
		w := postJSON(r, "/api/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "CASA2026",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestMe(t *testing.T) {
	r, db := setupTestServer(t)

	invite := models.Invite{InviteCode: "ME1", InviteType: models.InviteTypeSingle, RsvpStatus: models.RsvpStatusPending}
	if err := db.Create(&invite).Error; err != nil {
		t.Fatal(err)
	}
	token, _ := guestToken(t, db, "ana@example.com", &invite, "Ana", "Lopez", true)

	t.Run("guest sees their bundle", func(t *testing.T) {
		w := getJSON(r, "/api/me", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp struct {
			IsAdmin bool            `json:"is_admin"`
			Guest   json.RawMessage `json:"guest"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.IsAdmin {
			t.Error("guest must not be admin")
		}
		if string(resp.Guest) == "null" {
			t.Error("guest bundle missing")
		}
	})

	t.Run("admin has no guest bundle", func(t *testing.T) {
		admin := adminToken(t, db, "admin@example.com")
		w := getJSON(r, "/api/me", admin)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp struct {
			IsAdmin bool            `json:"is_admin"`
			Guest   json.RawMessage `json:"guest"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.IsAdmin {
			t.Error("admin flag missing")
		}
		if string(resp.Guest) != "null" {
			t.Errorf("guest = %s, want null", resp.Guest)
		}
	})
}

func TestMeAdminLookupFailure(t *testing.T) {
	r, db := setupTestServer(t)

	invite := models.Invite{InviteCode: "ME2", InviteType: models.InviteTypeSingle, RsvpStatus: models.RsvpStatusPending}
	if err := db.Create(&invite).Error; err != nil {
		t.Fatal(err)
	}
	token, _ := guestToken(t, db, "sofia@example.com", &invite, "Sofia", "Marin", true)

	// a store error on the admin lookup must surface, not read as "not admin"
	if err := db.Exec("DROP TABLE admin_users").Error; err != nil {
		t.Fatal(err)
	}
	w := getJSON(r, "/api/me", token)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the admin lookup fails", w.Code)
	}
}
