package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spinshelf/spinshelf-backend/internal/db"
	"github.com/spinshelf/spinshelf-backend/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return gdb
}

func TestUserRepoRoundTrip(t *testing.T) {
	gdb := testDB(t)
	repo := NewUserRepo(gdb)
	ctx := context.Background()

	u := &domain.User{Email: "  Ada@Example.COM ", PasswordHash: "x", DisplayName: "Ada"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	got, err := repo.ByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("id mismatch: %s vs %s", got.ID, u.ID)
	}
	if got.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", got.Email)
	}

	if _, err := repo.ByEmail(ctx, "nobody@example.com"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	byID, err := repo.ByID(ctx, u.ID)
	if err != nil || byID.Email != "ada@example.com" {
		t.Fatalf("by id: %v %v", byID, err)
	}
}

func TestSubscriptionRepoDefaultsToFree(t *testing.T) {
	gdb := testDB(t)
	users := NewUserRepo(gdb)
	subs := NewSubscriptionRepo(gdb)
	ctx := context.Background()

	u := &domain.User{Email: "sub@example.com", PasswordHash: "x"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	sub, err := subs.ForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if sub.Tier != domain.TierFree {
		t.Fatalf("tier = %q", sub.Tier)
	}

	again, err := subs.ForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("for user again: %v", err)
	}
	if again.ID != sub.ID {
		t.Fatalf("second lookup created a new row")
	}
}

func TestSubscriptionRepoUsageCounter(t *testing.T) {
	gdb := testDB(t)
	users := NewUserRepo(gdb)
	subs := NewSubscriptionRepo(gdb)
	ctx := context.Background()

	u := &domain.User{Email: "use@example.com", PasswordHash: "x"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := subs.IncrementUsage(ctx, u.ID, "2026-08"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	sub, err := subs.ForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if sub.MonthlyUsage != 3 || sub.UsageMonth != "2026-08" {
		t.Fatalf("usage = %d month = %q", sub.MonthlyUsage, sub.UsageMonth)
	}

	if err := subs.IncrementUsage(ctx, u.ID, "2026-09"); err != nil {
		t.Fatalf("increment new month: %v", err)
	}
	sub, err = subs.ForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if sub.MonthlyUsage != 1 || sub.UsageMonth != "2026-09" {
		t.Fatalf("rollover: usage = %d month = %q", sub.MonthlyUsage, sub.UsageMonth)
	}
}

func TestSubscriptionRepoSetTier(t *testing.T) {
	gdb := testDB(t)
	users := NewUserRepo(gdb)
	subs := NewSubscriptionRepo(gdb)
	ctx := context.Background()

	u := &domain.User{Email: "up@example.com", PasswordHash: "x"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	exp := time.Now().UTC().Add(30 * 24 * time.Hour)
	if err := subs.SetTier(ctx, u.ID, domain.TierPremium, &exp); err != nil {
		t.Fatalf("set tier: %v", err)
	}
	sub, err := subs.ForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if sub.Tier != domain.TierPremium {
		t.Fatalf("tier = %q", sub.Tier)
	}
	if !sub.Active(time.Now().UTC()) {
		t.Fatalf("expected active subscription")
	}
	if sub.Active(exp.Add(time.Hour)) {
		t.Fatalf("expected expired subscription past expiry")
	}
}
