package app

import (
	"context"
	"testing"

	"github.com/Angel-crypt/backend-we/internal/config"
	"github.com/Angel-crypt/backend-we/internal/service/integration"
	"github.com/rs/zerolog"
)

type recordingPublisher struct {
	closed int
}

func (p *recordingPublisher) Publish(context.Context, string, any) error { return nil }

func (p *recordingPublisher) Close() error {
	p.closed++
	return nil
}

func TestNewClosesPublisherOnStartupFailure(t *testing.T) {
	tests := []struct {
		name     string
		sessions string
		storage  string
	}{
		{"unknown session backend", "memcached", "minio"},
		{"unknown storage provider", "jwt", "ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			orig := connectPublisher
			connectPublisher = func(config.RabbitMQConfig, zerolog.Logger) integration.EventPublisher { return pub }
			defer func() { connectPublisher = orig }()

			cfg := &config.Config{
				Grades:   config.GradesConfig{Timezone: "UTC"},
				Session:  config.SessionConfig{Backend: tt.sessions, Secret: "test-secret"},
				Storage:  config.StorageConfig{Provider: tt.storage},
				RabbitMQ: config.RabbitMQConfig{Enabled: true},
			}

			if _, err := New(cfg, zerolog.Nop(), nil); err == nil {
				t.Fatalf("expected startup error")
			}
			if pub.closed != 1 {
				t.Fatalf("expected publisher to be closed once, got %d", pub.closed)
			}
		})
	}
}
