// Package discovery resolves the catalog backend address through Consul.
package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/consul/api"
	"go.uber.org/zap"

	"storefront/config"
)

type Client struct {
	client *api.Client
	cfg    config.ConsulConfig
	log    *zap.Logger
}

// NewClient creates a Consul client for the agent at cfg.Address.
func NewClient(cfg config.ConsulConfig, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ac := api.DefaultConfig()
	if cfg.Address != "" {
		ac.Address = cfg.Address
	}
	client, err := api.NewClient(ac)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	return &Client{client: client, cfg: cfg, log: log}, nil
}

// BackendURL returns the base URL of the first healthy instance of the
// configured service.
func (c *Client) BackendURL(ctx context.Context) (string, error) {
	q := (&api.QueryOptions{}).WithContext(ctx)
	entries, _, err := c.client.Health().Service(c.cfg.Service, "", true, q)
	if err != nil {
		return "", fmt.Errorf("failed to discover service %s: %w", c.cfg.Service, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no healthy instances of service %s found", c.cfg.Service)
	}

	e := entries[0]
	host := e.Service.Address
	if host == "" && e.Node != nil {
		host = e.Node.Address
	}
	scheme := c.cfg.Scheme
	if scheme == "" {
		scheme = "http"
	}
	path := ""
	if c.cfg.Path != "" {
		path = "/" + strings.Trim(c.cfg.Path, "/")
	}

	u := fmt.Sprintf("%s://%s:%d%s", scheme, host, e.Service.Port, path)
	c.log.Info("discovered backend", zap.String("service", c.cfg.Service), zap.String("url", u))
	return u, nil
}
