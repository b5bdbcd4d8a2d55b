package oauth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes needed to read Meet conference records and transcripts
var MeetScopes = []string{
	"https://www.googleapis.com/auth/meetings.space.readonly",
	"openid",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// GoogleProvider handles Google OAuth2 authentication
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return NewGoogleProviderWithEndpoint(clientID, clientSecret, redirectURL, google.Endpoint)
}

// NewGoogleProviderWithEndpoint creates a provider against a custom authorization server
func NewGoogleProviderWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *GoogleProvider {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       MeetScopes,
		Endpoint:     endpoint,
	}

	return &GoogleProvider{
		config: config,
	}
}

// GetAuthURL returns the OAuth authorization URL
func (g *GoogleProvider) GetAuthURL(state string) string {
	return g.config.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode exchanges the authorization code for tokens
func (g *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// TokenSource returns a source that refreshes token when it expires
func (g *GoogleProvider) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return g.config.TokenSource(ctx, token)
}

// Client returns an HTTP client that authorizes requests with the token source
func (g *GoogleProvider) Client(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	return oauth2.NewClient(ctx, ts)
}

// IDToken returns the raw id_token returned with token, if any
func IDToken(token *oauth2.Token) string {
	if token == nil {
		return ""
	}
	raw, _ := token.Extra("id_token").(string)
	return raw
}
