package handlers

import "time"

// FileUpload carries a file payload as base64 bytes inside the JSON body.
type FileUpload struct {
	Name     string `doc:"Original file name"                  example:"notes.txt"  json:"name,omitempty"`
	MimeType string `doc:"MIME type of the file"               example:"text/plain" json:"mimeType,omitempty"`
	Data     []byte `doc:"File content, base64 when over JSON" json:"data"`
}

// CreateLinkRequest is the request body for depositing a secret.
type CreateLinkRequest struct {
	Body struct {
		Content     string      `doc:"Text secret to share"                                    json:"content,omitempty"`
		File        *FileUpload `doc:"File secret to share"                                    json:"file,omitempty"`
		ExpiryValue string      `doc:"Expiry magnitude; non-positive or non-numeric means no expiry" example:"30" json:"expiryValue,omitempty"`
		ExpiryUnit  string      `doc:"Expiry unit"  enum:"minutes,hours,days" example:"minutes" json:"expiryUnit,omitempty"`
		MaxViews    string      `doc:"View budget; empty or non-positive means unlimited"      example:"1" json:"maxViews,omitempty"`
	}
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The share URL" header:"Location"`
	}
	Body struct {
		Handle    string     `doc:"The opaque link handle"        example:"V1StGXR8"                      json:"handle"`
		ShareURL  string     `doc:"The full share URL"            example:"http://localhost:8888/V1StGXR8" json:"shareUrl"`
		HasFile   bool       `doc:"Whether the link holds a file"                                        json:"hasFile"`
		ExpiresAt *time.Time `doc:"Absolute expiry deadline"                                             json:"expiresAt,omitempty"`
		MaxViews  *int       `doc:"View budget"                                                          json:"maxViews,omitempty"`
	}
}

// ViewLinkRequest is the request for viewing a link.
type ViewLinkRequest struct {
	Handle string `doc:"The link handle" example:"V1StGXR8" path:"handle"`
}

// LinkFileInfo describes the downloadable side of a viewed link.
type LinkFileInfo struct {
	Name        string `doc:"Original file name"    json:"name,omitempty"`
	DownloadURL string `doc:"Where to download the file" json:"downloadUrl"`
}

// ViewLinkResponse is the response for a successful view.
type ViewLinkResponse struct {
	Body struct {
		Content        *string       `doc:"Decrypted text secret"                                  json:"content,omitempty"`
		ContentError   string        `doc:"Set when the text could not be decrypted"               json:"contentError,omitempty"`
		File           *LinkFileInfo `doc:"Present when the link also holds a file"                json:"file,omitempty"`
		RemainingViews *int          `doc:"Views left before eviction; absent when unlimited"      json:"remainingViews,omitempty"`
	}
}

// DownloadLinkRequest is the request for downloading a link's file.
type DownloadLinkRequest struct {
	Handle string `doc:"The link handle" example:"V1StGXR8" path:"handle"`
}

// DownloadLinkResponse streams the decrypted file bytes back as an
// attachment.
type DownloadLinkResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}
