package analytics

import "time"

// Topics for link lifecycle events.
const (
	TopicLinkCreated  = "link.created"
	TopicLinkAccessed = "link.accessed"
)

// Access labels which serve path produced an access event.
const (
	AccessView     = "view"
	AccessDownload = "download"
)

// Outcome labels how an access ended.
const (
	OutcomeServed  = "served"
	OutcomeEvicted = "evicted"
	OutcomeMissing = "missing"
)

// LinkCreatedEvent is emitted when a link is deposited.
type LinkCreatedEvent struct {
	Handle    string     `json:"handle"`
	Kind      string     `json:"kind"`
	MaxViews  *int       `json:"maxViews,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ClientIP  string     `json:"clientIp"`
	UserAgent string     `json:"userAgent"`
}

// LinkAccessedEvent is emitted for every view or download attempt,
// including the ones that find the link gone or evict it.
type LinkAccessedEvent struct {
	Handle         string    `json:"handle"`
	Access         string    `json:"access"`
	Outcome        string    `json:"outcome"`
	RemainingViews *int      `json:"remainingViews,omitempty"`
	AccessedAt     time.Time `json:"accessedAt"`
	ClientIP       string    `json:"clientIp"`
	UserAgent      string    `json:"userAgent"`
	Referrer       string    `json:"referrer,omitempty"`
}
