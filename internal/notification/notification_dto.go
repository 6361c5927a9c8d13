package notification

import (
	"encoding/json"
	"time"
)

type CreateInput struct {
	UserID  uint
	Kind    string
	Message string
	Meta    map[string]any
}

type NotificationResponse struct {
	ID        uint           `json:"id"`
	Kind      string         `json:"kind"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
}

func MapNotification(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Kind:      n.Kind,
		Message:   n.Message,
		Read:      n.ReadAt != nil,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Meta) > 0 {
		// malformed meta is dropped from the response rather than failing the list
		_ = json.Unmarshal(n.Meta, &resp.Meta)
	}
	return resp
}

func MapNotifications(ns []Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, MapNotification(n))
	}
	return out
}
