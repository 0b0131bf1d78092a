package probe

import "testing"

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain http with port", raw: "http://127.0.0.1:9229", want: "http://127.0.0.1:9229"},
		{name: "https keeps path and query", raw: "https://example.com/a?b=c", want: "https://example.com/a?b=c"},
		{name: "upper-case scheme", raw: "HTTP://example.com", want: "http://example.com"},
		{name: "idn host", raw: "https://bücher.example/", want: "https://xn--bcher-kva.example/"},
		{name: "idn host with port", raw: "http://bücher.example:8080", want: "http://xn--bcher-kva.example:8080"},
		{name: "ipv6 literal", raw: "http://[::1]:9229/", want: "http://[::1]:9229/"},
		{name: "surrounding whitespace", raw: "  http://localhost  ", want: "http://localhost"},
		{name: "missing scheme", raw: "example.com", wantErr: true},
		{name: "unsupported scheme", raw: "ws://example.com", wantErr: true},
		{name: "missing host", raw: "https:///path", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTarget(%q) expected error, got %v", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTarget(%q) unexpected error: %v", tt.raw, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseTarget(%q) = %q, want %q", tt.raw, got.String(), tt.want)
			}
		})
	}
}
