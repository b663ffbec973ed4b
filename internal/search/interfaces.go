package search

//go:generate mockgen -destination=mock_search.go -package=search github.com/unifi-search-tool/unifi-search/internal/search Session

import (
	"context"

	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

// Session is one authenticated conversation with a controller.
// *unifi.Client satisfies it.
type Session interface {
	Login(ctx context.Context, username, password unifi.Secret) error
	Sites(ctx context.Context) ([]unifi.Site, error)
	SiteDevices(ctx context.Context, siteCode string) ([]unifi.Device, error)
}

// SessionFactory builds a fresh Session for each search.
type SessionFactory func(serverURL string, acceptInvalidCerts bool) (Session, error)

// NewClientFactory returns a SessionFactory backed by unifi.Client. The
// per-request acceptInvalidCerts flag can only relax opts, never tighten it.
func NewClientFactory(opts unifi.Options) SessionFactory {
	return func(serverURL string, acceptInvalidCerts bool) (Session, error) {
		o := opts
		o.AcceptInvalidCerts = o.AcceptInvalidCerts || acceptInvalidCerts

		c, err := unifi.New(serverURL, o)
		if err != nil {
			return nil, err
		}

		return c, nil
	}
}
