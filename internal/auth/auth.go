// Package auth supplies the authentication header attached to every request.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Static errors for err113 compliance.
var (
	ErrEmptyToken = errors.New("token source returned an empty access token")
)

// HeaderProvider supplies the authentication header for a request.
type HeaderProvider interface {
	AuthHeader(ctx context.Context) (name, value string, err error)
}

// StaticHeader sends the same header name and value on every request.
type StaticHeader struct {
	name  string
	value string
}

// NewStaticHeader creates a provider sending name: value.
func NewStaticHeader(name, value string) *StaticHeader {
	return &StaticHeader{name: name, value: value}
}

// AuthHeader implements HeaderProvider.
func (s *StaticHeader) AuthHeader(ctx context.Context) (string, string, error) {
	return s.name, s.value, nil
}

// TokenSourceHeader sends "Authorization: <type> <token>" with tokens from an
// oauth2.TokenSource. Tokens are reused until they expire.
type TokenSourceHeader struct {
	source oauth2.TokenSource
}

// NewTokenSourceHeader wraps source so that valid tokens are reused.
func NewTokenSourceHeader(source oauth2.TokenSource) *TokenSourceHeader {
	return &TokenSourceHeader{source: oauth2.ReuseTokenSource(nil, source)}
}

// AuthHeader implements HeaderProvider.
func (t *TokenSourceHeader) AuthHeader(ctx context.Context) (string, string, error) {
	token, err := t.source.Token()
	if err != nil {
		return "", "", fmt.Errorf("obtaining token: %w", err)
	}

	if token.AccessToken == "" {
		return "", "", ErrEmptyToken
	}

	return "Authorization", token.Type() + " " + token.AccessToken, nil
}

// NewProvider picks the provider for the given settings: a static header when
// apiKey is set, the token source otherwise, or nil when neither is present.
func NewProvider(headerName, apiKey string, source oauth2.TokenSource) HeaderProvider {
	if apiKey != "" && headerName != "" {
		return NewStaticHeader(headerName, apiKey)
	}

	if source != nil {
		return NewTokenSourceHeader(source)
	}

	return nil
}

// ClientCredentials returns a token source using the OAuth2 client_credentials
// grant against tokenURL.
func ClientCredentials(ctx context.Context, tokenURL, clientID, clientSecret string, scopes ...string) oauth2.TokenSource {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}

	return config.TokenSource(ctx)
}
