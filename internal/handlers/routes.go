package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/serroba/secretdrop/internal/ratelimit"
)

// RegisterRoutes registers all link routes with per-endpoint rate limit
// configuration.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler) {
	// POST /links - deposit a secret
	// Strict limits: creation writes blobs and records.
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/links",
		Summary:     "Create link",
		Description: "Deposits a text and/or file secret and returns its one-off share handle.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, linkHandler.CreateLink)

	// GET /{handle} - view a link
	// Each successful view spends the budget, so limits stay moderate.
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{handle}",
		Summary:     "View link",
		Description: "Returns the decrypted text secret and file descriptor; counts one view.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 120},
				},
			},
		},
	}, linkHandler.ViewLink)

	// GET /{handle}/file - download a link's file
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{handle}/file",
		Summary:     "Download link file",
		Description: "Returns the decrypted file payload as an attachment; counts one view.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 60},
				},
			},
		},
	}, linkHandler.DownloadLink)
}
