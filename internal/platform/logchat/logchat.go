package logchat

import (
	"log"
	"strconv"
	"sync/atomic"
)

// Client is the development stand-in for a real chat platform: every
// operation is written to the process log and handed a locally generated
// reference.
type Client struct {
	queueChannel string
	seq          atomic.Int64
}

func New(queueChannel string) *Client {
	return &Client{queueChannel: queueChannel}
}

func (c *Client) QueueChannel() string {
	return c.queueChannel
}

// Emit logs an event and returns a monotonically increasing reference.
func (c *Client) Emit(event string, fields map[string]any) string {
	ref := c.seq.Add(1)
	log.Printf("[platform] %s ref=%d %v", event, ref, fields)
	return strconv.FormatInt(ref, 10)
}
