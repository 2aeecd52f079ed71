package gcal

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewService builds a calendar service from a caller-supplied OAuth2 access
// token. The token arrives with the request (the hosted auth provider issues it
// during Google sign-in); no acquisition or refresh happens here. Extra options
// let tests point the service at a fake endpoint.
func NewService(ctx context.Context, accessToken string, opts ...option.ClientOption) (*calendar.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)

	svc, err := calendar.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}
