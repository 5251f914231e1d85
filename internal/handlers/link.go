package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/serroba/secretdrop/internal/analytics"
	"github.com/serroba/secretdrop/internal/crypto"
	"github.com/serroba/secretdrop/internal/link"
	"github.com/serroba/secretdrop/internal/messaging"
)

// unavailableMessage is shown for missing and evicted links alike; the
// distinction stays internal.
const unavailableMessage = "link not found or expired"

// LinkHandler handles secret link operations.
type LinkHandler struct {
	service             *link.Service
	baseURL             string
	publishLinkCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishLinkAccessed messaging.Publish[analytics.LinkAccessedEvent]
	logger              *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service *link.Service,
	baseURL string,
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishLinkAccessed messaging.Publish[analytics.LinkAccessedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:             service,
		baseURL:             baseURL,
		publishLinkCreated:  publishLinkCreated,
		publishLinkAccessed: publishLinkAccessed,
		logger:              logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	maxViews, err := link.ParseMaxViews(req.Body.MaxViews)
	if err != nil {
		return nil, huma.Error400BadRequest("max views must be an integer")
	}

	input := link.CreateInput{
		Text:      req.Body.Content,
		ExpiresAt: link.ParseExpiry(req.Body.ExpiryValue, req.Body.ExpiryUnit, time.Now()),
		MaxViews:  maxViews,
	}

	if req.Body.File != nil {
		input.FileBytes = req.Body.File.Data
		input.FileName = req.Body.File.Name
		input.MimeType = req.Body.File.MimeType
	}

	result, err := h.service.Create(ctx, input)
	if err != nil {
		if errors.Is(err, link.ErrNoPayload) {
			return nil, huma.Error400BadRequest("provide either text content or a file")
		}

		h.logger.Error("link creation failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Handle:    string(result.Handle),
		Kind:      string(result.Kind),
		MaxViews:  result.MaxViews,
		ExpiresAt: result.ExpiresAt,
		CreatedAt: result.CreatedAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishLinkCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("handle", event.Handle),
			zap.Error(err),
		)
	}

	shareURL := fmt.Sprintf("%s/%s", h.baseURL, result.Handle)

	resp := &CreateLinkResponse{}
	resp.Headers.Location = shareURL
	resp.Body.Handle = string(result.Handle)
	resp.Body.ShareURL = shareURL
	resp.Body.HasFile = result.HasFile
	resp.Body.ExpiresAt = result.ExpiresAt
	resp.Body.MaxViews = result.MaxViews

	return resp, nil
}

func (h *LinkHandler) ViewLink(ctx context.Context, req *ViewLinkRequest) (*ViewLinkResponse, error) {
	view, err := h.service.Serve(ctx, link.Handle(req.Handle))
	if err != nil {
		h.publishAccess(ctx, req.Handle, analytics.AccessView, outcomeFor(err), nil)

		switch {
		case errors.Is(err, link.ErrNotFound), errors.Is(err, link.ErrEvicted):
			return nil, huma.Error404NotFound(unavailableMessage)
		default:
			h.logger.Error("link view failed",
				zap.String("handle", req.Handle),
				zap.Error(err),
			)

			return nil, huma.Error500InternalServerError("failed to serve link")
		}
	}

	h.publishAccess(ctx, req.Handle, analytics.AccessView, analytics.OutcomeServed, view.RemainingViews)

	resp := &ViewLinkResponse{}
	resp.Body.Content = view.Text
	resp.Body.RemainingViews = view.RemainingViews

	if view.TextUnreadable {
		resp.Body.ContentError = "could not decrypt content"
	}

	if view.HasFile {
		resp.Body.File = &LinkFileInfo{
			Name:        view.FileName,
			DownloadURL: fmt.Sprintf("%s/%s/file", h.baseURL, req.Handle),
		}
	}

	return resp, nil
}

func (h *LinkHandler) DownloadLink(ctx context.Context, req *DownloadLinkRequest) (*DownloadLinkResponse, error) {
	file, err := h.service.ServeFile(ctx, link.Handle(req.Handle))
	if err != nil {
		h.publishAccess(ctx, req.Handle, analytics.AccessDownload, outcomeFor(err), nil)

		switch {
		case errors.Is(err, link.ErrNotFound), errors.Is(err, link.ErrEvicted):
			return nil, huma.Error404NotFound(unavailableMessage)
		case errors.Is(err, crypto.ErrAuthentication):
			// Content-level failure, not a fault: the blob cannot be
			// decrypted, so the file is unavailable.
			return nil, huma.Error404NotFound("could not decrypt file")
		default:
			h.logger.Error("link download failed",
				zap.String("handle", req.Handle),
				zap.Error(err),
			)

			return nil, huma.Error500InternalServerError("failed to serve file")
		}
	}

	h.publishAccess(ctx, req.Handle, analytics.AccessDownload, analytics.OutcomeServed, file.RemainingViews)

	return &DownloadLinkResponse{
		ContentType:        file.MimeType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", file.FileName),
		Body:               file.Data,
	}, nil
}

func (h *LinkHandler) publishAccess(
	ctx context.Context, handle, access, outcome string, remaining *int,
) {
	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkAccessedEvent{
		Handle:         handle,
		Access:         access,
		Outcome:        outcome,
		RemainingViews: remaining,
		AccessedAt:     time.Now(),
		ClientIP:       meta.ClientIP,
		UserAgent:      meta.UserAgent,
		Referrer:       meta.Referrer,
	}

	if err := h.publishLinkAccessed(event); err != nil {
		h.logger.Error("failed to publish link accessed event",
			zap.String("handle", handle),
			zap.Error(err),
		)
	}
}

func outcomeFor(err error) string {
	if errors.Is(err, link.ErrEvicted) {
		return analytics.OutcomeEvicted
	}

	return analytics.OutcomeMissing
}
