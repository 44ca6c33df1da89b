package httpclient

import (
	"net/http"
	"testing"
	"time"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(t.TempDir(), 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCookiesExpiringWithinNoCookies(t *testing.T) {
	c := newTestClient(t)
	if c.CookiesExpiringWithin(time.Hour) {
		t.Error("empty jar should not report expiring cookies")
	}
}

func TestCookiesExpiringWithinSoonExpiring(t *testing.T) {
	c := newTestClient(t)
	base, err := httpBaseURL(c.baseURL)
	if err != nil {
		t.Fatalf("httpBaseURL: %v", err)
	}
	err = c.SetCookies([]*http.Cookie{
		{Name: "JSESSIONID", Value: "abc123", Path: "/", Domain: base.Hostname(), Expires: time.Now().Add(30 * time.Second)},
	})
	if err != nil {
		t.Fatalf("SetCookies: %v", err)
	}
	if !c.CookiesExpiringWithin(time.Minute) {
		t.Error("cookie expiring in 30s should count as expiring within 1m")
	}
	if c.CookiesExpiringWithin(time.Second) {
		t.Error("cookie expiring in 30s should not count as expiring within 1s")
	}
}

func TestCookieValueRoundTrip(t *testing.T) {
	c := newTestClient(t)
	base, _ := httpBaseURL(c.baseURL)
	if err := c.SetCookies([]*http.Cookie{
		{Name: "JSESSIONID", Value: "session-value", Path: "/", Domain: base.Hostname()},
	}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}
	v, ok := c.CookieValue("JSESSIONID")
	if !ok || v != "session-value" {
		t.Errorf("CookieValue = (%q, %v), want (session-value, true)", v, ok)
	}
	if _, ok := c.CookieValue("missing"); ok {
		t.Error("CookieValue(missing) should report not found")
	}
}

func TestSaveLoadCookiesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c1, err := New(dir, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	base, _ := httpBaseURL(c1.baseURL)
	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	if err := c1.SetCookies([]*http.Cookie{
		{Name: "JSESSIONID", Value: "persisted", Path: "/", Domain: base.Hostname(), Expires: expires},
	}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}
	if err := c1.SaveCookies(); err != nil {
		t.Fatalf("SaveCookies: %v", err)
	}

	c2, err := New(dir, 5*time.Second)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	v, ok := c2.CookieValue("JSESSIONID")
	if !ok || v != "persisted" {
		t.Errorf("reloaded CookieValue = (%q, %v), want (persisted, true)", v, ok)
	}
}

func TestLoadCookiesMissingFileIsNotError(t *testing.T) {
	c := newTestClient(t)
	if err := c.LoadCookies(); err != nil {
		t.Errorf("LoadCookies on missing file: %v", err)
	}
}

func TestCookiesExpiringWithinAlreadyExpired(t *testing.T) {
	c := newTestClient(t)
	if err := c.SetCookies([]*http.Cookie{
		{Name: "JSESSIONID", Value: "stale", Path: "/", Expires: time.Now().Add(-time.Hour)},
	}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}
	if !c.CookiesExpiringWithin(time.Minute) {
		t.Error("an already-expired session cookie must force a re-login")
	}
}
