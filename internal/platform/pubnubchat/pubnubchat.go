package pubnubchat

import (
	"context"
	"fmt"
	"strconv"

	pubnub "github.com/pubnub/go/v7"
)

type Config struct {
	PublishKey   string `json:"publish_key"`
	SubscribeKey string `json:"subscribe_key"`
	SecretKey    string `json:"secret_key"`
	UUID         string `json:"uuid"`

	QueueChannel    string `json:"queue_channel"`
	AnnounceChannel string `json:"announce_channel"`
	ControlChannel  string `json:"control_channel"`
}

// Client wraps a PubNub connection. Channels are cheap on PubNub, so a
// ticket channel is just a name; visibility is enforced by the
// platform-side worker that consumes the control channel.
type Client struct {
	cfg *Config
	pn  *pubnub.PubNub
}

func New(cfg *Config) *Client {
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.UUID))
	pnConfig.PublishKey = cfg.PublishKey
	pnConfig.SubscribeKey = cfg.SubscribeKey
	pnConfig.SecretKey = cfg.SecretKey

	return &Client{
		cfg: cfg,
		pn:  pubnub.NewPubNub(pnConfig),
	}
}

func (c *Client) QueueChannel() string    { return c.cfg.QueueChannel }
func (c *Client) AnnounceChannel() string { return c.cfg.AnnounceChannel }
func (c *Client) ControlChannel() string  { return c.cfg.ControlChannel }

// Publish sends msg to channel and returns the publish timetoken, which
// doubles as the message reference.
func (c *Client) Publish(ctx context.Context, channel string, msg any) (string, error) {
	res, pnStatus, err := c.pn.Publish().
		Channel(channel).
		Message(msg).
		Execute()
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	if pnStatus.Error != nil {
		return "", fmt.Errorf("publish to %s: status %d", channel, pnStatus.StatusCode)
	}
	return strconv.FormatInt(res.Timestamp, 10), nil
}

func (c *Client) Destroy() {
	c.pn.Destroy()
}
