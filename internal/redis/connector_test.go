package redis

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "localhost:6379",
		ConnectTimeout: time.Second,
		RetryInterval:  10 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    10 * time.Millisecond,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{"valid", func(*ConnectOptions) {}, false},
		{"missing addr", func(o *ConnectOptions) { o.Addr = "" }, true},
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }, true},
		{"zero retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }, true},
		{"zero max wait", func(o *ConnectOptions) { o.MaxWait = 0 }, true},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }, true},
		{"negative warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	b := &backoff{wait: time.Second, max: 5 * time.Second}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := b.next(); got != w {
			t.Errorf("next() #%d = %v, want %v", i, got, w)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{RedisAddr: "redis:6379", RedisDB: 2, RedisPoolSize: 7}
	opts := OptionsFromConfig(cfg)
	if opts.Addr != "redis:6379" || opts.RedisDB != 2 || opts.PoolSize != 7 {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	if _, err := New(ConnectOptions{}, logger.New("error", false)); err == nil {
		t.Error("New() should fail on invalid options")
	}
}
