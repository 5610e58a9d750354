package oauth

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/logger"
)

// Ensure LocalConsentFlow implements the interface.
var _ driven.ConsentFlow = (*LocalConsentFlow)(nil)

// portSearchRange is how many ports after the preferred one are tried when
// it is taken.
const portSearchRange = 100

// LocalConsentFlow runs consent in the user's browser and receives the
// redirect on a loopback callback server.
type LocalConsentFlow struct {
	// Port is the preferred callback port. 0 picks any free port.
	Port int
	// Out receives the consent URL.
	Out io.Writer
	// Browser opens the consent URL. Nil leaves it to the user.
	Browser func(url string) error
}

// NewLocalConsentFlow creates a consent flow.
func NewLocalConsentFlow(port int, out io.Writer, browser func(string) error) *LocalConsentFlow {
	return &LocalConsentFlow{Port: port, Out: out, Browser: browser}
}

// RequestConsent serves the callback, shows the consent URL and blocks until
// the redirect arrives or ctx is done.
func (f *LocalConsentFlow) RequestConsent(
	ctx context.Context,
	state string,
	authURL func(redirectURI string) string,
) (string, string, error) {
	server, err := f.startServer(state)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Debug("Callback server shutdown: %v", err)
		}
	}()

	redirectURI := server.RedirectURI()
	consentURL := authURL(redirectURI)

	if f.Out != nil {
		_, _ = fmt.Fprintf(f.Out, "Open this URL in your browser to authorize adsync:\n\n  %s\n\n", consentURL)
	}
	if f.Browser != nil {
		if err := f.Browser(consentURL); err != nil {
			logger.Warn("Could not open browser: %v", err)
		}
	}

	logger.Debug("Waiting for authorization callback on %s", redirectURI)
	code, err := server.WaitForCode(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", domain.ErrConsentFailed, err)
	}
	return code, redirectURI, nil
}

// startServer listens on the preferred port, falling back to the next free
// port in range.
func (f *LocalConsentFlow) startServer(state string) (*CallbackServer, error) {
	server := NewCallbackServer(f.Port, state)
	err := server.Start()
	if err == nil {
		return server, nil
	}
	if f.Port == 0 {
		return nil, err
	}

	logger.Debug("Callback port %d unavailable: %v", f.Port, err)
	port, findErr := FindAvailablePort(f.Port+1, f.Port+portSearchRange)
	if findErr != nil {
		return nil, fmt.Errorf("start callback server: %w", findErr)
	}
	server = NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}
