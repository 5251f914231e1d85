package link

import "time"

// Handle is the opaque, unguessable identifier of one stored link.
type Handle string

// PayloadKind tags which payloads a link carries.
type PayloadKind string

const (
	KindText        PayloadKind = "text"
	KindFile        PayloadKind = "file"
	KindTextAndFile PayloadKind = "text+file"
)

// Link is the persisted record for one shared secret. TextCiphertext is nil
// when the link has no text payload; the encrypted file bytes, when HasFile
// is set, live in the BlobStore under the same handle.
type Link struct {
	Handle         Handle
	TextCiphertext []byte
	HasFile        bool
	FileName       string
	MimeType       string
	CreatedAt      time.Time
	ExpiresAt      *time.Time // nil = never time-expires
	MaxViews       *int       // nil = unlimited views
	Views          int
}

// HasText reports whether the link carries a text payload.
func (l *Link) HasText() bool {
	return len(l.TextCiphertext) > 0
}

// Kind returns the payload tag for the link.
func (l *Link) Kind() PayloadKind {
	switch {
	case l.HasText() && l.HasFile:
		return KindTextAndFile
	case l.HasFile:
		return KindFile
	default:
		return KindText
	}
}

// CreateInput is the payload for Service.Create.
type CreateInput struct {
	Text      string
	FileBytes []byte
	FileName  string
	MimeType  string
	ExpiresAt *time.Time
	MaxViews  *int
}

func (in *CreateInput) hasFile() bool {
	return len(in.FileBytes) > 0
}

// Validate enforces the at-least-one-payload invariant.
func (in *CreateInput) Validate() error {
	if in.Text == "" && !in.hasFile() {
		return ErrNoPayload
	}

	return nil
}

// Kind returns the payload tag for the input.
func (in *CreateInput) Kind() PayloadKind {
	switch {
	case in.Text != "" && in.hasFile():
		return KindTextAndFile
	case in.hasFile():
		return KindFile
	default:
		return KindText
	}
}

// CreateResult describes a freshly created link.
type CreateResult struct {
	Handle    Handle
	Kind      PayloadKind
	HasFile   bool
	ExpiresAt *time.Time
	MaxViews  *int
	CreatedAt time.Time
}

// View is the outcome of serving a link's text side. Text is nil when the
// link has no text payload or when TextUnreadable is set.
type View struct {
	Text           *string
	TextUnreadable bool
	HasFile        bool
	FileName       string
	RemainingViews *int // nil = unlimited
}

// FileContent is the outcome of serving a link's file side.
type FileContent struct {
	Data           []byte
	FileName       string
	MimeType       string
	RemainingViews *int
}
