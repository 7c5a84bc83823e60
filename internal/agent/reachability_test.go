package agent

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"
)

func TestCheckReachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	open := fmt.Sprintf("http://127.0.0.1:%d/v1beta", ln.Addr().(*net.TCPAddr).Port)

	closedLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	closed := fmt.Sprintf("http://127.0.0.1:%d", closedLn.Addr().(*net.TCPAddr).Port)
	_ = closedLn.Close()

	cases := []struct {
		name     string
		baseURL  string
		wantErr  bool
		wantKind ErrorKind
	}{
		{name: "empty uses default", baseURL: ""},
		{name: "listening", baseURL: open},
		{name: "invalid", baseURL: "://bad", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://example.test", wantErr: true},
		{name: "refused", baseURL: closed, wantErr: true, wantKind: KindNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			err := CheckReachable(ctx, tc.baseURL)
			if tc.wantErr != (err != nil) {
				t.Fatalf("CheckReachable(%q) error = %v, wantErr %v", tc.baseURL, err, tc.wantErr)
			}
			if tc.wantKind != KindNone && Classify(err) != tc.wantKind {
				t.Fatalf("Classify() = %q, want %q", Classify(err), tc.wantKind)
			}
		})
	}
}
