package api

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/tsukimi/internal/security"
)

func testLinkBuilder(t *testing.T, ttl time.Duration) *WebLinkBuilder {
	t.Helper()
	key, err := security.DeriveTokenKey(testChannelSecret, "web-link")
	if err != nil {
		t.Fatalf("derive token key: %v", err)
	}
	return NewWebLinkBuilder(key, "https://bot.example.test", ttl)
}

func TestWebLinkRoundTrip(t *testing.T) {
	t.Parallel()

	builder := testLinkBuilder(t, time.Hour)

	link, err := builder.WebLink("alice", "calendar")
	if err != nil {
		t.Fatalf("WebLink: %v", err)
	}
	if !strings.HasPrefix(link, "https://bot.example.test/app/calendar?token=") {
		t.Fatalf("link = %q", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	claims, err := builder.parseToken(parsed.Query().Get("token"))
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if claims.UserID != "alice" || claims.View != "calendar" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	builder := testLinkBuilder(t, time.Hour)

	token, err := builder.buildToken("alice", "dashboard", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("buildToken: %v", err)
	}
	if _, err := builder.parseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseTokenRejectsForeignKey(t *testing.T) {
	t.Parallel()

	builder := testLinkBuilder(t, time.Hour)

	foreignKey, err := security.DeriveTokenKey("another-channel", "web-link")
	if err != nil {
		t.Fatalf("derive token key: %v", err)
	}
	foreign := NewWebLinkBuilder(foreignKey, "https://bot.example.test", time.Hour)

	token, err := foreign.buildToken("alice", "dashboard", time.Now())
	if err != nil {
		t.Fatalf("buildToken: %v", err)
	}
	if _, err := builder.parseToken(token); err == nil {
		t.Error("token signed with a different channel secret accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	builder := testLinkBuilder(t, time.Hour)
	if _, err := builder.parseToken("header.payload.signature"); err == nil {
		t.Error("garbage token accepted")
	}
}
