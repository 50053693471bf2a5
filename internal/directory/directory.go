package directory

import (
	"context"
	"net/url"
	"time"

	"stafflink/internal/api"
	"stafflink/internal/models"

	"github.com/c-pro/geche"
)

// Provider resolves department colleagues for an identity. Results are
// cached for a short TTL per department; the self-exclusion is applied per
// caller so the cache can be shared between identities.
type Provider struct {
	api   *api.Client
	cache geche.Geche[string, []models.Peer]
}

func NewProvider(ctx context.Context, client *api.Client, ttl time.Duration) *Provider {
	return &Provider{
		api:   client,
		cache: geche.NewMapTTLCache[string, []models.Peer](ctx, ttl, ttl),
	}
}

// ListDepartmentPeers returns the identity's department colleagues, in the
// order the server sent them, with the identity itself filtered out.
func (p *Provider) ListDepartmentPeers(ctx context.Context, identity models.Identity) ([]models.Peer, error) {
	return p.list(ctx, identity, "/api/employees/department/")
}

// ListMessagingPeers is the messaging view's variant of the directory list.
// The upstream exposes it as a separate endpoint; semantics are the same.
func (p *Provider) ListMessagingPeers(ctx context.Context, identity models.Identity) ([]models.Peer, error) {
	return p.list(ctx, identity, "/api/employees/department-messages/")
}

func (p *Provider) list(ctx context.Context, identity models.Identity, pathPrefix string) ([]models.Peer, error) {
	if identity.Department == "" {
		return nil, &api.ValidationError{Reason: "identity has no department"}
	}

	cacheKey := pathPrefix + identity.Department
	if peers, err := p.cache.Get(cacheKey); err == nil {
		return excludeSelf(peers, identity.ID), nil
	}

	var peers []models.Peer
	if err := p.api.Get(ctx, pathPrefix+url.PathEscape(identity.Department), &peers); err != nil {
		return nil, err
	}

	p.cache.Set(cacheKey, peers)
	return excludeSelf(peers, identity.ID), nil
}

// excludeSelf drops the caller from the list without reordering it.
func excludeSelf(peers []models.Peer, selfID int64) []models.Peer {
	result := make([]models.Peer, 0, len(peers))
	for _, peer := range peers {
		if peer.ID != selfID {
			result = append(result, peer)
		}
	}
	return result
}
