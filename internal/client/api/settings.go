package api

import "context"

// CurrentExpo fetches the server's notion of the globally selected expo.
func (c *Client) CurrentExpo(ctx context.Context) (*Envelope, error) {
	return c.Get(ctx, "/current-expo", nil)
}

// SetCurrentExpo asks the server to change the global selection. The caller
// must not apply the change locally until this succeeds.
func (c *Client) SetCurrentExpo(ctx context.Context, expoID int64) (*Envelope, error) {
	return c.Post(ctx, "/current-expo", map[string]any{"expo_id": expoID})
}
