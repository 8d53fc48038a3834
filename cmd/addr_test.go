package cmd

import (
	"os"
	"testing"
)

func TestValidateAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"loopback with port", "127.0.0.1:8080", false},
		{"localhost", "localhost:8080", false},
		{"port only", ":8080", false},
		{"auto-assign port", "127.0.0.1:0", false},
		{"ipv6", "[::1]:8080", false},
		{"missing port", "127.0.0.1", true},
		{"non-numeric port", "localhost:http", true},
		{"port out of range", "localhost:70000", true},
		{"garbage", "not an addr", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAddr(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAddr(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestParseServeAddr(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"default", []string{"wadden-sea", "serve"}, defaultAddr, false},
		{"positional", []string{"wadden-sea", "serve", ":9000"}, ":9000", false},
		{"flag", []string{"wadden-sea", "serve", "-addr", ":9000"}, ":9000", false},
		{"double-dash flag", []string{"wadden-sea", "serve", "--addr", "localhost:9000"}, "localhost:9000", false},
		{"invalid positional", []string{"wadden-sea", "serve", "bogus"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			got, err := parseServeAddr()
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseServeAddr() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseServeAddr() = %q, want %q", got, tt.want)
			}
		})
	}
}
