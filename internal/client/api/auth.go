package api

import "context"

// Login exchanges credentials for {user, token}.
func (c *Client) Login(ctx context.Context, username, password string) (*Envelope, error) {
	return c.Post(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// Logout invalidates the current token server-side.
func (c *Client) Logout(ctx context.Context) (*Envelope, error) {
	return c.Post(ctx, "/auth/logout", nil)
}

// Me revalidates the current token and returns the server's copy of the
// operator record.
func (c *Client) Me(ctx context.Context) (*Envelope, error) {
	return c.Get(ctx, "/auth/me", nil)
}

// ChangePassword replaces the operator's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (*Envelope, error) {
	return c.Post(ctx, "/auth/change-password", map[string]string{
		"current_password": current,
		"new_password":     next,
	})
}
