package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// metadataIPURL is the EC2 instance metadata endpoint for the public
// IPv4 address. Overridable for tests.
var metadataIPURL = "http://169.254.169.254/latest/meta-data/public-ipv4"

// ipifyURL is the external fallback for public IP discovery.
var ipifyURL = "https://api.ipify.org"

// DiscoverBaseURL returns BaseURL when it is configured, otherwise
// builds one from the instance's public IP. Discovery tries the EC2
// metadata service first, then ipify, then falls back to localhost.
// Discovery failures are not errors: a wrong base URL only degrades the
// integration URLs shown on the onboarding page.
func DiscoverBaseURL(ctx context.Context, cfg Config) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", publicIP(ctx), cfg.Port)
}

func publicIP(ctx context.Context) string {
	rc := resty.New().SetTimeout(5 * time.Second)

	for _, url := range []string{metadataIPURL, ipifyURL} {
		resp, err := rc.R().SetContext(ctx).Get(url)
		if err != nil || resp.IsError() {
			continue
		}
		if ip := strings.TrimSpace(resp.String()); ip != "" {
			return ip
		}
	}
	return "localhost"
}
