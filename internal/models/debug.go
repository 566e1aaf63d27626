package models

// Request and response shapes for the unauthenticated /debug surface. These
// are harness-facing, not part of the vendor wire protocol.

type SimulateIncomingRequest struct {
	From string `json:"from"`
	Name string `json:"name,omitempty"`
	Body string `json:"body"`
}

type SendInteractiveRequest struct {
	Type        string `json:"type"` // "button_reply" or "list_reply"
	From        string `json:"from"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type SimulateResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	MediaCount int    `json:"media_count"`
	Note       string `json:"note"`
}

type MediaListResponse struct {
	Media []MediaEntry `json:"media"`
	Note  string       `json:"note"`
}

type ExpireAllResponse struct {
	ExpiredMediaIDs []string `json:"expired_media_ids"`
	Count           int      `json:"count"`
}

type ExpireOneResponse struct {
	ID      string `json:"id"`
	Expired bool   `json:"expired"`
}
