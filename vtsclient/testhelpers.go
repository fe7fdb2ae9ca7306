package vtsclient

// NewForTest builds a Client around an arbitrary Sender, bypassing the
// Builder's middleware stack, for tests in other packages that need a
// working *Client without a real or fake WebSocket host.
func NewForTest(sender Sender) *Client {
	return &Client{sender: sender}
}
