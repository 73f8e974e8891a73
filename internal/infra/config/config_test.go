package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("DISCORD_GUILD_ID", "G1")
	t.Setenv("ROSTER_CHANNEL_ID", "RC")
	t.Setenv("BOT_OWNER_ID", "OWNER")
}

func TestLoadDefaultsAndAccessFallbacks(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ValorantRegion != "na" || cfg.OpenAIModel != "gpt-4o" || cfg.SweepInterval != time.Minute {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Access.HomeGuildID != "G1" || cfg.Access.OwnerID != "OWNER" {
		t.Fatalf("access should fall back to env: %+v", cfg.Access)
	}
}

func TestLoadMergesLeagueRolesIntoAccess(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "access.yaml")
	if err := os.WriteFile(path, []byte(`captain_role_ids: ["K1", "CAPROLE"]`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACCESS_CONFIG", path)
	t.Setenv("CAPTAIN_ROLE", "CAPROLE")
	t.Setenv("MANAGER_ROLE", "MGRROLE")
	t.Setenv("SEASON_ROLE", "SEASONROLE")
	t.Setenv("COACH_ROLE", "COACHROLE")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(cfg.Access.CaptainRoleIDs, ","); got != "K1,CAPROLE,MGRROLE" {
		t.Fatalf("captain roles = %s", got)
	}
	if got := strings.Join(cfg.Access.MemberRoleIDs, ","); got != "SEASONROLE,COACHROLE" {
		t.Fatalf("member roles = %s", got)
	}
}

func TestLoadReportsAllMissing(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "DISCORD_BOT_TOKEN", "DISCORD_GUILD_ID", "ROSTER_CHANNEL_ID", "BOT_OWNER_ID"} {
		t.Setenv(k, "")
	}
	_, err := Load()
	if err == nil {
		t.Fatal("want error")
	}
	for _, k := range []string{"DATABASE_URL", "BOT_OWNER_ID"} {
		if !strings.Contains(err.Error(), k) {
			t.Fatalf("error should mention %s: %v", k, err)
		}
	}
}

func TestLoadBadSweepInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("SWEEP_INTERVAL_SECONDS", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("want error for bad interval")
	}
}

func TestLoadAccessYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.yaml")
	body := `
home_guild_id: "G9"
allowed_channel_ids: ["C1", " ", "C2"]
staff_role_ids: ["S1"]
captain_role_ids: ["K1", "K2"]
member_role_ids: ["M1"]
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	acc, err := LoadAccess(path)
	if err != nil {
		t.Fatalf("load access: %v", err)
	}
	if acc.HomeGuildID != "G9" || len(acc.AllowedChannelIDs) != 2 || acc.CaptainRoleIDs[1] != "K2" || acc.MemberRoleIDs[0] != "M1" {
		t.Fatalf("unexpected access %+v", acc)
	}

	if err := os.WriteFile(path, []byte("staff_role_ids: {"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAccess(path); err == nil {
		t.Fatal("want yaml error")
	}
}
