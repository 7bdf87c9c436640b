package platform

import (
	"context"
	"fmt"

	"github.com/11VZ/AuroraBot/config"
	"github.com/11VZ/AuroraBot/internal/platform/logchat"
	"github.com/11VZ/AuroraBot/internal/platform/pubnubchat"
)

// New creates a platform instance for the configured provider. Development
// deployments without PubNub keys fall back to the log provider.
func New(ctx context.Context, cfg *config.Config) (Platform, error) {
	switch Provider(cfg.PlatformProvider) {
	case ProviderPubNub:
		if cfg.PubNubPublishKey == "" || cfg.PubNubSubscribeKey == "" {
			return nil, fmt.Errorf("pubnub provider requires publish and subscribe keys")
		}
		return newPubNubAdapter(cfg), nil

	case ProviderLog:
		return newLogAdapter(cfg), nil

	default:
		return nil, fmt.Errorf("unsupported platform provider: %s", cfg.PlatformProvider)
	}
}

func newPubNubAdapter(cfg *config.Config) Platform {
	return &pubnubAdapter{
		client: pubnubchat.New(&pubnubchat.Config{
			PublishKey:   cfg.PubNubPublishKey,
			SubscribeKey: cfg.PubNubSubscribeKey,
			SecretKey:    cfg.PubNubSecretKey,
			UUID:         cfg.PubNubUUID,

			QueueChannel:    cfg.QueueChannel,
			AnnounceChannel: cfg.AnnounceChannel,
			ControlChannel:  cfg.ControlChannel,
		}),
	}
}

func newLogAdapter(cfg *config.Config) Platform {
	return &logAdapter{client: logchat.New(cfg.QueueChannel)}
}
