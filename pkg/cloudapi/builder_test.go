package cloudapi

import (
	"strings"
	"testing"

	"wamock/pkg/cloudapi/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextMessage(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req, err := NewTextMessage("15551234567", "hello")
		require.NoError(t, err)

		assert.Equal(t, "whatsapp", req.MessagingProduct)
		assert.Equal(t, "individual", req.RecipientType)
		assert.Equal(t, "15551234567", req.To)
		assert.Equal(t, types.MessageTypeText, req.Type)
		require.NotNil(t, req.Text)
		assert.Equal(t, "hello", req.Text.Body)
	})

	t.Run("empty recipient", func(t *testing.T) {
		_, err := NewTextMessage("", "hello")
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := NewTextMessage("15551234567", "")
		assert.Error(t, err)
	})

	t.Run("body at limit", func(t *testing.T) {
		_, err := NewTextMessage("15551234567", strings.Repeat("a", types.MaxBodyLength))
		assert.NoError(t, err)
	})

	t.Run("body over limit", func(t *testing.T) {
		_, err := NewTextMessage("15551234567", strings.Repeat("a", types.MaxBodyLength+1))
		assert.Error(t, err)
	})
}

func TestNewImageMessage(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req, err := NewImageMessage("15551234567", "mock_1_abc", "a caption")
		require.NoError(t, err)

		assert.Equal(t, types.MessageTypeImage, req.Type)
		require.NotNil(t, req.Image)
		assert.Equal(t, "mock_1_abc", req.Image.ID)
		assert.Equal(t, "a caption", req.Image.Caption)
	})

	t.Run("empty media id", func(t *testing.T) {
		_, err := NewImageMessage("15551234567", "", "")
		assert.Error(t, err)
	})
}

func TestNewButtonMessage(t *testing.T) {
	buttons := []types.ButtonReply{
		{ID: "btn_yes", Title: "Yes"},
		{ID: "btn_no", Title: "No"},
	}

	t.Run("valid", func(t *testing.T) {
		req, err := NewButtonMessage("15551234567", "Pick one", buttons)
		require.NoError(t, err)

		assert.Equal(t, types.MessageTypeInteractive, req.Type)
		require.NotNil(t, req.Interactive)
		assert.Equal(t, types.InteractiveTypeButton, req.Interactive.Type)
		assert.Equal(t, "Pick one", req.Interactive.Body.Text)
		require.Len(t, req.Interactive.Action.Buttons, 2)
		assert.Equal(t, "reply", req.Interactive.Action.Buttons[0].Type)
		assert.Equal(t, "btn_yes", req.Interactive.Action.Buttons[0].Reply.ID)
	})

	t.Run("no buttons", func(t *testing.T) {
		_, err := NewButtonMessage("15551234567", "Pick one", nil)
		assert.Error(t, err)
	})

	t.Run("too many buttons", func(t *testing.T) {
		four := make([]types.ButtonReply, types.MaxButtons+1)
		for i := range four {
			four[i] = types.ButtonReply{ID: "id", Title: "t"}
		}
		_, err := NewButtonMessage("15551234567", "Pick one", four)
		assert.Error(t, err)
	})

	t.Run("title over limit", func(t *testing.T) {
		long := []types.ButtonReply{{ID: "btn", Title: strings.Repeat("x", types.MaxButtonTitleLength+1)}}
		_, err := NewButtonMessage("15551234567", "Pick one", long)
		assert.Error(t, err)
	})

	t.Run("missing button id", func(t *testing.T) {
		_, err := NewButtonMessage("15551234567", "Pick one", []types.ButtonReply{{Title: "Yes"}})
		assert.Error(t, err)
	})
}

func TestNewListMessage(t *testing.T) {
	sections := []types.Section{{
		Title: "Options",
		Rows: []types.SectionRow{
			{ID: "row_1", Title: "First", Description: "First row"},
			{ID: "row_2", Title: "Second"},
		},
	}}

	t.Run("valid", func(t *testing.T) {
		req, err := NewListMessage("15551234567", "Choose", "Open", sections)
		require.NoError(t, err)

		require.NotNil(t, req.Interactive)
		assert.Equal(t, types.InteractiveTypeList, req.Interactive.Type)
		assert.Equal(t, "Open", req.Interactive.Action.Button)
		require.Len(t, req.Interactive.Action.Sections, 1)
		assert.Len(t, req.Interactive.Action.Sections[0].Rows, 2)
	})

	t.Run("no sections", func(t *testing.T) {
		_, err := NewListMessage("15551234567", "Choose", "Open", nil)
		assert.Error(t, err)
	})

	t.Run("too many rows", func(t *testing.T) {
		rows := make([]types.SectionRow, types.MaxListRows+1)
		for i := range rows {
			rows[i] = types.SectionRow{ID: "id", Title: "t"}
		}
		_, err := NewListMessage("15551234567", "Choose", "Open", []types.Section{{Rows: rows}})
		assert.Error(t, err)
	})

	t.Run("row title over limit", func(t *testing.T) {
		bad := []types.Section{{Rows: []types.SectionRow{{ID: "r", Title: strings.Repeat("x", types.MaxListRowTitleLength+1)}}}}
		_, err := NewListMessage("15551234567", "Choose", "Open", bad)
		assert.Error(t, err)
	})

	t.Run("row description over limit", func(t *testing.T) {
		bad := []types.Section{{Rows: []types.SectionRow{{
			ID: "r", Title: "ok", Description: strings.Repeat("x", types.MaxListRowDescLength+1),
		}}}}
		_, err := NewListMessage("15551234567", "Choose", "Open", bad)
		assert.Error(t, err)
	})

	t.Run("button text over limit", func(t *testing.T) {
		_, err := NewListMessage("15551234567", "Choose", strings.Repeat("x", types.MaxListButtonTextLength+1), sections)
		assert.Error(t, err)
	})
}
