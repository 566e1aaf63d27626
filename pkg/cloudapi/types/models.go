// Package types mirrors the WhatsApp Cloud API wire schema: outbound send
// requests and responses, media upload responses, and the webhook envelope
// the vendor POSTs to application callbacks.
package types

// SendMessageRequest is the outbound message body accepted by
// POST /{version}/{phoneNumberId}/messages. The emulator accepts any
// syntactically well-formed body; content-shape validation belongs to the
// SDK layer.
type SendMessageRequest struct {
	MessagingProduct string       `json:"messaging_product,omitempty"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to"`
	Type             string       `json:"type,omitempty"`
	Text             *Text        `json:"text,omitempty"`
	Image            *MediaRef    `json:"image,omitempty"`
	Document         *MediaRef    `json:"document,omitempty"`
	Video            *MediaRef    `json:"video,omitempty"`
	Interactive      *Interactive `json:"interactive,omitempty"`
}

type Text struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

// MediaRef references previously uploaded media by id, or an external link.
type MediaRef struct {
	ID       string `json:"id,omitempty"`
	Link     string `json:"link,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Interactive is the outbound interactive message payload (buttons/lists).
type Interactive struct {
	Type   string             `json:"type"`
	Header *InteractiveHeader `json:"header,omitempty"`
	Body   *InteractiveBody   `json:"body"`
	Footer *InteractiveFooter `json:"footer,omitempty"`
	Action *InteractiveAction `json:"action"`
}

type InteractiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveFooter struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Button   string    `json:"button,omitempty"`
	Buttons  []Button  `json:"buttons,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

type Button struct {
	Type  string      `json:"type"`
	Reply ButtonReply `json:"reply"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Section struct {
	Title string       `json:"title,omitempty"`
	Rows  []SectionRow `json:"rows"`
}

type SectionRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// SendMessageResponse is the 200 body for an accepted outbound send. The
// emulator echoes the recipient as both input and wa_id; it performs no
// real WhatsApp-ID resolution.
type SendMessageResponse struct {
	MessagingProduct string          `json:"messaging_product"`
	Contacts         []ContactResult `json:"contacts"`
	Messages         []MessageResult `json:"messages"`
}

type ContactResult struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type MessageResult struct {
	ID string `json:"id"`
}

// UploadMediaResponse is the 200 body for an accepted media upload.
type UploadMediaResponse struct {
	ID string `json:"id"`
}
