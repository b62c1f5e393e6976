package model_test

import (
	"errors"
	"testing"

	"telegram-channel-gate/internal/domain"
	"telegram-channel-gate/internal/domain/model"
)

func TestNewTextPayload(t *testing.T) {
	p, err := model.NewTextPayload("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind != model.PayloadText || p.Text != "hello" {
		t.Errorf("payload = %+v", p)
	}

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := model.NewTextPayload(text); !errors.Is(err, domain.ErrEmptyPayload) {
			t.Errorf("NewTextPayload(%q) error = %v, want ErrEmptyPayload", text, err)
		}
	}
}

func TestNewMediaPayloads(t *testing.T) {
	photo, err := model.NewPhotoPayload("file-1", "a caption")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if photo.Kind != model.PayloadPhoto || photo.FileID != "file-1" || photo.Caption != "a caption" {
		t.Errorf("photo = %+v", photo)
	}

	video, err := model.NewVideoPayload("file-2", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if video.Kind != model.PayloadVideo || video.FileID != "file-2" {
		t.Errorf("video = %+v", video)
	}

	if _, err := model.NewPhotoPayload("", "cap"); !errors.Is(err, domain.ErrEmptyPayload) {
		t.Errorf("photo without file id: %v", err)
	}
	if _, err := model.NewVideoPayload("", ""); !errors.Is(err, domain.ErrEmptyPayload) {
		t.Errorf("video without file id: %v", err)
	}
}

func TestDeliveryReportFailed(t *testing.T) {
	r := model.DeliveryReport{Attempted: 10, Succeeded: 7}
	if r.Failed() != 3 {
		t.Errorf("Failed = %d, want 3", r.Failed())
	}
}
