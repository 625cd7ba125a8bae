package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Paris at night ", "Paris at night"},
		{"script block", `hi<script type="text/javascript">alert(1)</script> there`, "hi there"},
		{"javascript uri", "javascript:alert(1)", "alert(1)"},
		{"event handler", `<img src=x onerror=alert(1)>`, "&lt;img src=x alert(1)&gt;"},
		{"quotes", `Tom's "cafe" & bar`, "Tom&#039;s &quot;cafe&quot; &amp; bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.in); got != tt.want {
				t.Fatalf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	if !IsValidEmail("a@b.co") || IsValidEmail("not an email") {
		t.Fatal("email validation mismatch")
	}
	if !IsValidOTP("012345") || IsValidOTP("12345") || IsValidOTP("12a456") {
		t.Fatal("otp validation mismatch")
	}
	if !IsValidLatitude(-90) || IsValidLatitude(90.01) || !IsValidLongitude(180) || IsValidLongitude(-180.5) {
		t.Fatal("coordinate validation mismatch")
	}
	if !IsValidURL("https://paypal.me/x") || IsValidURL("javascript:alert(1)") || IsValidURL("ftp://host/x") || IsValidURL("/relative") {
		t.Fatal("url validation mismatch")
	}
	if !IsValidDate("2026-02-28") || IsValidDate("2026-02-30") || IsValidDate("28/02/2026") {
		t.Fatal("date validation mismatch")
	}
	if NormalizeEmail("  Foo@Example.COM ") != "foo@example.com" {
		t.Fatal("email normalization mismatch")
	}
}

func TestIsSafeFilename(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	for _, name := range []string{"../etc/passwd", "a/b.png", `a\b.png`, string(long), "", ".", ".."} {
		if IsSafeFilename(name) {
			t.Errorf("expected %q to be rejected", name)
		}
	}
	for _, name := range []string{"beach day.jpg", "trip..final.jpg", "..hidden.png"} {
		if !IsSafeFilename(name) {
			t.Errorf("expected %q to be accepted", name)
		}
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := map[string]bool{"12": true, "0": false, "-3": false, "abc": false}
	for raw, ok := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		if _, got := ParseID(c, "id"); got != ok {
			t.Errorf("ParseID(%q) ok = %v, want %v", raw, got, ok)
		}
	}
}
