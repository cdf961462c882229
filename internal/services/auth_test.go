package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spinshelf/spinshelf-backend/internal/db"
	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/repos"
)

func newAuthService(t *testing.T) (*AuthService, *repos.SubscriptionRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One pooled connection, or each conn would see its own empty memory DB.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewAuthService(testLogger(t), repos.NewUserRepo(gdb))
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	return svc, repos.NewSubscriptionRepo(gdb)
}

func TestRegisterLoginAndParseToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Collector@Example.com", "hunter2hunter2", "Collector")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Token == "" || reg.User.Email != "collector@example.com" {
		t.Fatalf("register result: %+v", reg)
	}

	login, err := svc.Login(ctx, "collector@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	id, err := svc.ParseToken(login.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if id != reg.User.ID {
		t.Fatalf("token subject %s != user %s", id, reg.User.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@example.com", "hunter2hunter2", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Login(ctx, "a@example.com", "wrong-password")
	if got := apierr.StatusOf(err); got != 401 {
		t.Fatalf("status = %d", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "hunter2hunter2", ""); apierr.StatusOf(err) != 400 {
		t.Fatalf("expected 400 for bad email, got %v", err)
	}
	if _, err := svc.Register(ctx, "b@example.com", "short", ""); apierr.StatusOf(err) != 400 {
		t.Fatalf("expected 400 for weak password, got %v", err)
	}
	if _, err := svc.Register(ctx, "c@example.com", "hunter2hunter2", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "c@example.com", "hunter2hunter2", ""); apierr.StatusOf(err) != 400 {
		t.Fatalf("expected 400 for duplicate email, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, err := svc.ParseToken("not.a.token"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPlanGatePremium(t *testing.T) {
	svc, subs := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "plan@example.com", "hunter2hunter2", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	plan := NewPlanService(subs)

	err = plan.RequirePremium(ctx, reg.User.ID)
	if got := apierr.StatusOf(err); got != 403 {
		t.Fatalf("free user: status = %d", got)
	}

	if err := subs.SetTier(ctx, reg.User.ID, domain.TierPremium, nil); err != nil {
		t.Fatalf("set tier: %v", err)
	}
	if err := plan.RequirePremium(ctx, reg.User.ID); err != nil {
		t.Fatalf("premium user gated: %v", err)
	}

	expired := time.Now().UTC().Add(-time.Hour)
	if err := subs.SetTier(ctx, reg.User.ID, domain.TierPremium, &expired); err != nil {
		t.Fatalf("set tier: %v", err)
	}
	err = plan.RequirePremium(ctx, reg.User.ID)
	if got := apierr.StatusOf(err); got != 403 {
		t.Fatalf("expired premium: status = %d", got)
	}
}
