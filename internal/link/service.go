package link

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Cipher is the authenticated encryption dependency of the service.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Service is the lifecycle and eviction core: it coordinates handle
// issuance, envelope encryption, expiry evaluation, and the atomic
// check-serve-evict sequence.
type Service struct {
	records Repository
	blobs   BlobStore
	cipher  Cipher
	handles *HandleGenerator
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates the link service. The handle generator is built
// against the same repository so uniqueness checks see all records.
func NewService(
	records Repository,
	blobs BlobStore,
	cipher Cipher,
	handleLength int,
	logger *zap.Logger,
) (*Service, error) {
	handles, err := NewHandleGenerator(records, handleLength)
	if err != nil {
		return nil, err
	}

	return &Service{
		records: records,
		blobs:   blobs,
		cipher:  cipher,
		handles: handles,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// WithClock overrides the service clock. Intended for expiry tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now

	return s
}

// Create encrypts the supplied payloads and stores a new link. The blob is
// written before the metadata record so a committed record never claims a
// file that was not stored; if the record insert fails the blob is removed
// best-effort.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	handle, err := s.handles.NewHandle(ctx)
	if err != nil {
		return nil, err
	}

	l := &Link{
		Handle:    handle,
		CreatedAt: s.now(),
		ExpiresAt: in.ExpiresAt,
		MaxViews:  normalizeMaxViews(in.MaxViews),
	}

	if in.Text != "" {
		ciphertext, err := s.cipher.Encrypt([]byte(in.Text))
		if err != nil {
			return nil, fmt.Errorf("encrypt text: %w", err)
		}

		l.TextCiphertext = ciphertext
	}

	if in.hasFile() {
		encrypted, err := s.cipher.Encrypt(in.FileBytes)
		if err != nil {
			return nil, fmt.Errorf("encrypt file: %w", err)
		}

		if err := s.blobs.Put(ctx, handle, encrypted); err != nil {
			return nil, fmt.Errorf("store blob: %w", err)
		}

		l.HasFile = true
		l.FileName = in.FileName
		l.MimeType = in.MimeType
	}

	if err := s.records.Insert(ctx, l); err != nil {
		if l.HasFile {
			// Roll back the blob so it does not outlive a record that was
			// never committed.
			if delErr := s.blobs.Delete(ctx, handle); delErr != nil {
				s.logger.Warn("blob rollback failed",
					zap.String("handle", string(handle)),
					zap.Error(delErr),
				)
			}
		}

		return nil, fmt.Errorf("insert link: %w", err)
	}

	return &CreateResult{
		Handle:    handle,
		Kind:      l.Kind(),
		HasFile:   l.HasFile,
		ExpiresAt: l.ExpiresAt,
		MaxViews:  l.MaxViews,
		CreatedAt: l.CreatedAt,
	}, nil
}

// Serve returns the text side of a link and advances its view counter.
// The access that exhausts the view budget is itself served, with zero
// remaining views; an access whose increment overshot an already exhausted
// budget observes ErrEvicted instead.
func (s *Service) Serve(ctx context.Context, handle Handle) (*View, error) {
	now := s.now()

	l, err := s.records.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load link: %w", err)
	}

	if IsExpired(l, l.Views, now) {
		s.evict(ctx, l)

		return nil, ErrEvicted
	}

	view := &View{
		HasFile:  l.HasFile,
		FileName: l.FileName,
	}

	if l.HasText() {
		plaintext, err := s.cipher.Decrypt(l.TextCiphertext)
		if err != nil {
			// Content-level failure: the caller still gets a view, just one
			// it cannot read.
			view.TextUnreadable = true

			s.logger.Warn("text decryption failed",
				zap.String("handle", string(handle)),
				zap.Error(err),
			)
		} else {
			text := string(plaintext)
			view.Text = &text
		}
	}

	remaining, err := s.countView(ctx, l, now)
	if err != nil {
		return nil, err
	}

	view.RemainingViews = remaining

	return view, nil
}

// ServeFile returns the decrypted file payload of a link, following the
// same pre/post-increment eviction protocol as Serve. Both paths share one
// view counter per handle.
func (s *Service) ServeFile(ctx context.Context, handle Handle) (*FileContent, error) {
	now := s.now()

	l, err := s.records.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load link: %w", err)
	}

	if !l.HasFile {
		return nil, ErrNotFound
	}

	if IsExpired(l, l.Views, now) {
		s.evict(ctx, l)

		return nil, ErrEvicted
	}

	encrypted, err := s.blobs.Get(ctx, handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The record outlived its blob. Remove the orphaned metadata so
			// it stops advertising a file it cannot serve.
			s.evict(ctx, l)

			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load blob: %w", err)
	}

	data, err := s.cipher.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt blob: %w", err)
	}

	remaining, err := s.countView(ctx, l, now)
	if err != nil {
		return nil, err
	}

	fileName := l.FileName
	if fileName == "" {
		fileName = string(handle) + ".bin"
	}

	mimeType := l.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &FileContent{
		Data:           data,
		FileName:       fileName,
		MimeType:       mimeType,
		RemainingViews: remaining,
	}, nil
}

// countView atomically increments the view counter and runs the
// post-increment expiry check. The returned remaining count is nil for
// unlimited links and zero when this access exhausted the budget.
func (s *Service) countView(ctx context.Context, l *Link, now time.Time) (*int, error) {
	views, err := s.records.IncrementViews(ctx, l.Handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// A concurrent access evicted the link between lookup and
			// increment.
			return nil, ErrEvicted
		}

		return nil, fmt.Errorf("increment views: %w", err)
	}

	if IsExpired(l, views, now) {
		s.evict(ctx, l)

		if IsExpired(l, views-1, now) {
			// The budget was already spent before this increment: a
			// concurrent access won the last view.
			return nil, ErrEvicted
		}

		zero := 0

		return &zero, nil
	}

	if l.MaxViews == nil {
		return nil, nil
	}

	remaining := *l.MaxViews - views

	return &remaining, nil
}

// evict destroys the link: metadata first, then the blob, both best-effort.
// Deletion failures are logged and swallowed; an orphaned blob is an
// acceptable degraded state, orphaned metadata is not.
func (s *Service) evict(ctx context.Context, l *Link) {
	deleted, err := s.records.DeleteIfExists(ctx, l.Handle)
	if err != nil {
		s.logger.Warn("record eviction failed",
			zap.String("handle", string(l.Handle)),
			zap.Error(err),
		)
	}

	if l.HasFile {
		if err := s.blobs.Delete(ctx, l.Handle); err != nil {
			s.logger.Warn("blob eviction failed",
				zap.String("handle", string(l.Handle)),
				zap.Error(err),
			)
		}
	}

	if deleted {
		s.logger.Debug("link evicted", zap.String("handle", string(l.Handle)))
	}
}

func normalizeMaxViews(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}

	return v
}
