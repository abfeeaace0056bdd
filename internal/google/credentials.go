package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// ErrNoCredentials is returned when neither inline JSON nor a key file is configured.
var ErrNoCredentials = errors.New("no service account credentials configured")

// Credentials holds a parsed service account key.
type Credentials struct {
	data []byte

	// ClientEmail is the service account identity, for logging.
	ClientEmail string
}

// LoadCredentials reads the service account key from inlineJSON, or from the
// file at path when inlineJSON is empty.
func LoadCredentials(inlineJSON, path string) (*Credentials, error) {
	var data []byte
	switch {
	case inlineJSON != "":
		data = []byte(inlineJSON)
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file %s: %w", path, err)
		}
		data = b
	default:
		return nil, ErrNoCredentials
	}

	conf, err := google.JWTConfigFromJSON(data, DefaultScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return &Credentials{data: data, ClientEmail: conf.Email}, nil
}

func (c *Credentials) jwtConfig(scopes []string) (*jwt.Config, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	conf, err := google.JWTConfigFromJSON(c.data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	return conf, nil
}

// TokenSource returns a token source for the given scopes (DefaultScopes if none).
func (c *Credentials) TokenSource(ctx context.Context, scopes ...string) (oauth2.TokenSource, error) {
	conf, err := c.jwtConfig(scopes)
	if err != nil {
		return nil, err
	}
	return conf.TokenSource(ctx), nil
}

// HTTPClient returns an HTTP client that authenticates every request as the
// service account. The client is configured to use HTTP/1.1 to avoid HTTP/2
// protocol errors, and both token exchanges and API calls are traced.
func (c *Credentials) HTTPClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	conf, err := c.jwtConfig(scopes)
	if err != nil {
		return nil, err
	}

	// Force HTTP/1.1 by disabling HTTP/2
	base := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}
	tracedClient := &http.Client{Transport: otelhttp.NewTransport(base)}

	// oauth2 picks the base client for token requests and API calls from the context
	ctx = context.WithValue(ctx, oauth2.HTTPClient, tracedClient)
	return conf.Client(ctx), nil
}
