package utils

import (
	"net/http/httptest"
	"net/netip"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr only", "10.0.0.1:1234", nil, false, "10.0.0.1"},
		{"headers ignored when proxy untrusted", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "1.2.3.4"}, false, "10.0.0.1"},
		{"cloudflare header first", "10.0.0.1:1234", map[string]string{"CF-Connecting-IP": "5.6.7.8", "X-Forwarded-For": "1.2.3.4"}, true, "5.6.7.8"},
		{"left-most forwarded for", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 9.9.9.9"}, true, "1.2.3.4"},
		{"real ip fallback", "10.0.0.1:1234", map[string]string{"X-Real-IP": "8.8.8.8"}, true, "8.8.8.8"},
		{"no headers with trusted proxy", "[::1]:80", nil, true, "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"192.168.1.0/24", " 10.0.0.5 ", "", "garbage", "2001:db8::/32"})

	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.42", true},
		{"192.168.2.1", false},
		{"10.0.0.5", true},
		{"10.0.0.6", false},
		{"::ffff:10.0.0.5", true},
		{"2001:db8::1", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if m.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("empty list should produce an empty matcher")
	}
}

func TestIsPublicAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"93.184.216.34", true},
		{"2606:4700::1111", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.1", false},
		{"169.254.169.254", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"100.64.0.1", false},
		{"0.0.0.0", false},
		{"224.0.0.1", false},
		{"::ffff:127.0.0.1", false},
		{"::ffff:8.8.8.8", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := IsPublicAddr(netip.MustParseAddr(tt.addr)); got != tt.want {
				t.Errorf("IsPublicAddr(%s) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}
