package paypal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	LiveVerifyURL    = "https://ipnpb.paypal.com/cgi-bin/webscr"
	SandboxVerifyURL = "https://ipnpb.sandbox.paypal.com/cgi-bin/webscr"
)

var ErrNotVerified = errors.New("ipn not verified by paypal")

// Verifier posts the notification back to PayPal, which answers VERIFIED
// or INVALID.
type Verifier struct {
	url    string
	client *http.Client
}

func NewVerifier(sandbox bool, client *http.Client) *Verifier {
	url := LiveVerifyURL
	if sandbox {
		url = SandboxVerifyURL
	}
	return NewVerifierWithURL(url, client)
}

func NewVerifierWithURL(url string, client *http.Client) *Verifier {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Verifier{url: url, client: client}
}

// Verify sends the raw body unchanged, prefixed with cmd=_notify-validate.
func (v *Verifier) Verify(ctx context.Context, body []byte) error {
	payload := append([]byte("cmd=_notify-validate&"), body...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build postback: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "chelseasymphony-donations")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("postback: %w", err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("read postback reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("postback status %d", resp.StatusCode)
	}
	if string(bytes.TrimSpace(reply)) != "VERIFIED" {
		return fmt.Errorf("%w: %q", ErrNotVerified, bytes.TrimSpace(reply))
	}
	return nil
}
