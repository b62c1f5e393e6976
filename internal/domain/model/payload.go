package model

import (
	"strings"

	"telegram-channel-gate/internal/domain"
)

// PayloadKind tags the broadcast payload variant. The variant is decided once
// at the transport boundary; dispatch sites switch on the tag instead of
// re-inspecting message fields.
type PayloadKind string

const (
	PayloadText  PayloadKind = "text"
	PayloadPhoto PayloadKind = "photo"
	PayloadVideo PayloadKind = "video"
)

// Payload is one authored broadcast message. Immutable after construction.
type Payload struct {
	Kind    PayloadKind
	Text    string // text variant only
	FileID  string // Telegram file reference, photo/video variants
	Caption string // optional, photo/video variants
}

func NewTextPayload(text string) (*Payload, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyPayload
	}
	return &Payload{Kind: PayloadText, Text: text}, nil
}

func NewPhotoPayload(fileID, caption string) (*Payload, error) {
	if fileID == "" {
		return nil, domain.ErrEmptyPayload
	}
	return &Payload{Kind: PayloadPhoto, FileID: fileID, Caption: caption}, nil
}

func NewVideoPayload(fileID, caption string) (*Payload, error) {
	if fileID == "" {
		return nil, domain.ErrEmptyPayload
	}
	return &Payload{Kind: PayloadVideo, FileID: fileID, Caption: caption}, nil
}
