package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://h/api", "-w", "ws://h/ws", "-t", "10", "-r", "0", "-s", "x.db"},
			want: Config{APIBaseURL: "http://h/api", RealtimeURL: "ws://h/ws", RequestTimeout: 10 * time.Second, StoragePath: "x.db"},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.json", "-v", "-a=http://h/api"},
			want: Config{APIBaseURL: "http://h/api", ReconnectMaxAttempts: 5, RequestTimeout: 15 * time.Second},
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{RequestTimeout: 15 * time.Second, ReconnectMaxAttempts: 5}
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, cfg))
		})
	}
}
