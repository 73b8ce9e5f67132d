package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		tz := "Europe/Rome"
		user, err := svc.CreateUser("Alice", "alice@example.com", "password123", &tz)
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if user.TimezoneName() != "Europe/Rome" {
			t.Errorf("expected timezone Europe/Rome, got %q", user.TimezoneName())
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
			t.Error("expected stored password to be a bcrypt hash of the input")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("A", "dup@example.com", "password123", nil)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("B", "DUP@example.com", "password456", nil)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("email_of_deleted_user_stays_reserved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUserWithEmail(t, db, "gone@example.com")
		testutil.AssertNoError(t, svc.DeleteUser(user.ID))

		_, err := svc.CreateUser("New", "gone@example.com", "password123", nil)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "x@example.com", "password123", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("X", "", "password123", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("X", "x@example.com", "", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_timezone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		tz := "Mars/Olympus"
		_, err := svc.CreateUser("X", "x@example.com", "password123", &tz)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice", " Alice@EXAMPLE.COM ", "password123", nil)
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		user, err := svc.AttemptLogin("LOGIN@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user %s, got %s", created.ID, user.ID)
		}
		if user.LastLoginAt == nil {
			t.Error("expected LastLoginAt to be set")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		_, err := svc.AttemptLogin("login@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("deleted_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithEmail(t, db, "deleted@example.com")
		testutil.AssertNoError(t, svc.DeleteUser(user.ID))

		_, err := svc.AttemptLogin("deleted@example.com", testutil.TestPassword)
		testutil.AssertAppError(t, err, "USER_DELETED")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "hash-1"))
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "hash-2"))

	got, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != "hash-2" {
		t.Errorf("expected latest hash, got %q", got)
	}

	err = svc.StoreRefreshTokenHash("0190a6f4-3c2b-7d4e-8f00-123456789abc", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestUpdateProfile(t *testing.T) {
	t.Run("name_and_timezone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		name, tz := "Renamed", "Asia/Tokyo"
		updated, err := svc.UpdateProfile(user.ID, &name, &tz)
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" || updated.TimezoneName() != "Asia/Tokyo" {
			t.Errorf("unexpected profile: name=%s tz=%s", updated.Name, updated.TimezoneName())
		}
	})

	t.Run("empty_timezone_clears", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		tz := "Asia/Tokyo"
		_, err := svc.UpdateProfile(user.ID, nil, &tz)
		testutil.AssertNoError(t, err)

		empty := ""
		updated, err := svc.UpdateProfile(user.ID, nil, &empty)
		testutil.AssertNoError(t, err)
		if updated.Timezone != nil {
			t.Errorf("expected timezone cleared, got %q", *updated.Timezone)
		}
	})

	t.Run("invalid_timezone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		tz := "Not/AZone"
		_, err := svc.UpdateProfile(user.ID, nil, &tz)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteAndRestoreUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUserWithEmail(t, db, "cycle@example.com")
	cat := testutil.CreateTestCategory(t, db, user.ID)
	testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, "10.00", "2025-01-01")
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "hash"))

	testutil.AssertNoError(t, svc.DeleteUser(user.ID))

	_, err := svc.GetUserByID(user.ID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")

	var txCount int64
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txCount)
	if txCount != 1 {
		t.Errorf("expected owned transactions untouched, got %d", txCount)
	}

	restored, err := svc.RestoreUser("cycle@example.com")
	testutil.AssertNoError(t, err)
	if restored.ID != user.ID {
		t.Errorf("expected restored user %s, got %s", user.ID, restored.ID)
	}
	if restored.RefreshTokenHash != "" {
		t.Error("expected refresh token to stay revoked after restore")
	}

	_, err = svc.RestoreUser("cycle@example.com")
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.RestoreUser("nobody@example.com")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
