// Package cloudapi provides outbound request builders for the Cloud API
// message endpoint. Builders are pure: field-length validation plus object
// construction, no I/O.
package cloudapi

import (
	"fmt"

	"wamock/pkg/cloudapi/types"
)

// NewTextMessage builds a text send request.
func NewTextMessage(to, body string) (*types.SendMessageRequest, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient cannot be empty")
	}
	if body == "" {
		return nil, fmt.Errorf("text body cannot be empty")
	}
	if len(body) > types.MaxBodyLength {
		return nil, fmt.Errorf("text body too long: %d characters (max %d)", len(body), types.MaxBodyLength)
	}

	return &types.SendMessageRequest{
		MessagingProduct: types.MessagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             types.MessageTypeText,
		Text:             &types.Text{Body: body},
	}, nil
}

// NewImageMessage builds an image send request referencing uploaded media.
func NewImageMessage(to, mediaID, caption string) (*types.SendMessageRequest, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient cannot be empty")
	}
	if mediaID == "" {
		return nil, fmt.Errorf("media id cannot be empty")
	}

	return &types.SendMessageRequest{
		MessagingProduct: types.MessagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             types.MessageTypeImage,
		Image:            &types.MediaRef{ID: mediaID, Caption: caption},
	}, nil
}

// NewButtonMessage builds an interactive reply-button send request.
func NewButtonMessage(to, body string, buttons []types.ButtonReply) (*types.SendMessageRequest, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient cannot be empty")
	}
	if body == "" || len(body) > types.MaxBodyLength {
		return nil, fmt.Errorf("body must be 1-%d characters", types.MaxBodyLength)
	}
	if len(buttons) == 0 || len(buttons) > types.MaxButtons {
		return nil, fmt.Errorf("buttons must number 1-%d, got %d", types.MaxButtons, len(buttons))
	}

	wireButtons := make([]types.Button, 0, len(buttons))
	for _, b := range buttons {
		if b.ID == "" || b.Title == "" {
			return nil, fmt.Errorf("button id and title cannot be empty")
		}
		if len(b.Title) > types.MaxButtonTitleLength {
			return nil, fmt.Errorf("button title %q too long (max %d characters)", b.Title, types.MaxButtonTitleLength)
		}
		wireButtons = append(wireButtons, types.Button{Type: "reply", Reply: b})
	}

	return &types.SendMessageRequest{
		MessagingProduct: types.MessagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             types.MessageTypeInteractive,
		Interactive: &types.Interactive{
			Type:   types.InteractiveTypeButton,
			Body:   &types.InteractiveBody{Text: body},
			Action: &types.InteractiveAction{Buttons: wireButtons},
		},
	}, nil
}

// NewListMessage builds an interactive list send request.
func NewListMessage(to, body, buttonText string, sections []types.Section) (*types.SendMessageRequest, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient cannot be empty")
	}
	if body == "" || len(body) > types.MaxBodyLength {
		return nil, fmt.Errorf("body must be 1-%d characters", types.MaxBodyLength)
	}
	if buttonText == "" || len(buttonText) > types.MaxListButtonTextLength {
		return nil, fmt.Errorf("list button text must be 1-%d characters", types.MaxListButtonTextLength)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("at least one section is required")
	}

	totalRows := 0
	for _, section := range sections {
		for _, row := range section.Rows {
			if row.ID == "" || row.Title == "" {
				return nil, fmt.Errorf("list row id and title cannot be empty")
			}
			if len(row.Title) > types.MaxListRowTitleLength {
				return nil, fmt.Errorf("list row title %q too long (max %d characters)", row.Title, types.MaxListRowTitleLength)
			}
			if len(row.Description) > types.MaxListRowDescLength {
				return nil, fmt.Errorf("list row description too long (max %d characters)", types.MaxListRowDescLength)
			}
			totalRows++
		}
	}
	if totalRows == 0 || totalRows > types.MaxListRows {
		return nil, fmt.Errorf("list rows must number 1-%d, got %d", types.MaxListRows, totalRows)
	}

	return &types.SendMessageRequest{
		MessagingProduct: types.MessagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             types.MessageTypeInteractive,
		Interactive: &types.Interactive{
			Type:   types.InteractiveTypeList,
			Body:   &types.InteractiveBody{Text: body},
			Action: &types.InteractiveAction{Button: buttonText, Sections: sections},
		},
	}, nil
}
