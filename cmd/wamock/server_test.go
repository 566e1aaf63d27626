package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"wamock/internal/errors"
	"wamock/internal/ids"
	"wamock/internal/mediastore"
	"wamock/internal/models"
	"wamock/internal/service"
	"wamock/internal/webhook"
	"wamock/pkg/cloudapi/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	server   *Server
	store    *mediastore.Store
	now      *time.Time
	payloads chan types.WebhookPayload
	target   *httptest.Server
}

// newHarness wires a full server against a capturing webhook target and a
// controllable clock.
func newHarness(t *testing.T) *testHarness {
	t.Helper()

	payloads := make(chan types.WebhookPayload, 16)
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return
		}
		var payload types.WebhookPayload
		if json.Unmarshal(data, &payload) == nil {
			payloads <- payload
		}
	}))
	t.Cleanup(target.Close)

	cfg := &models.Config{
		PhoneNumberID:      "15550123456",
		DisplayPhoneNumber: "15550123456",
		Host:               "127.0.0.1",
		Port:               0,
		Webhook: &models.WebhookConfig{
			URL:       target.URL,
			Secret:    "test-secret",
			TimeoutMs: 2000,
		},
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := &current

	gen := ids.NewGenerator()
	store := mediastore.NewWithClock(func() time.Time { return current }, nil)
	dispatcher := webhook.NewDispatcher(cfg, gen, nil)
	msgService := service.NewMessageService(dispatcher, gen, nil)

	return &testHarness{
		server:   NewServer(cfg, msgService, store, dispatcher, logger),
		store:    store,
		now:      now,
		payloads: payloads,
		target:   target,
	}
}

func (h *testHarness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)
	return rec
}

func (h *testHarness) waitPayload(t *testing.T) types.WebhookPayload {
	t.Helper()
	select {
	case payload := <-h.payloads:
		return payload
	case <-time.After(3 * time.Second):
		t.Fatal("no webhook payload arrived")
		return types.WebhookPayload{}
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func multipartUpload(t *testing.T, fields map[string]string, fileField, filename, mimeType, content string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		header.Set("Content-Type", mimeType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestSendMessageEndpoint(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/v23.0/15550123456/messages", types.SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               "15551234567",
		Type:             types.MessageTypeText,
		Text:             &types.Text{Body: "hello"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.SendMessageResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "whatsapp", resp.MessagingProduct)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "15551234567", resp.Contacts[0].Input)
	assert.Equal(t, "15551234567", resp.Contacts[0].WaID)
	require.Len(t, resp.Messages, 1)
	assert.Regexp(t, `^mock_\d+_[a-z0-9]+$`, resp.Messages[0].ID)

	// The status webhook follows asynchronously and carries the same id.
	payload := h.waitPayload(t)
	require.Len(t, payload.Entry, 1)
	statuses := payload.Entry[0].Changes[0].Value.Statuses
	require.Len(t, statuses, 1)
	assert.Equal(t, resp.Messages[0].ID, statuses[0].ID)
	assert.Equal(t, "sent", statuses[0].Status)
	assert.Equal(t, "15551234567", statuses[0].RecipientID)
}

func TestSendMessageEndpoint_NotBlockedBySlowWebhook(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer slow.Close()
	defer close(release)

	cfg := &models.Config{
		PhoneNumberID:      "15550123456",
		DisplayPhoneNumber: "15550123456",
		Webhook:            &models.WebhookConfig{URL: slow.URL, TimeoutMs: 5000},
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	gen := ids.NewGenerator()
	dispatcher := webhook.NewDispatcher(cfg, gen, nil)
	msgService := service.NewMessageService(dispatcher, gen, nil)
	store := mediastore.New(nil)
	server := NewServer(cfg, msgService, store, dispatcher, logger)

	data, err := json.Marshal(types.SendMessageRequest{To: "15551234567"})
	require.NoError(t, err)

	start := time.Now()
	req := httptest.NewRequest(http.MethodPost, "/v23.0/15550123456/messages", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Less(t, time.Since(start), time.Second, "response must not wait on webhook delivery")
}

func TestSendMessageEndpoint_Validation(t *testing.T) {
	h := newHarness(t)

	t.Run("missing recipient", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/v23.0/15550123456/messages", types.SendMessageRequest{
			MessagingProduct: "whatsapp",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body errors.GraphErrorBody
		decodeJSON(t, rec, &body)
		assert.Equal(t, errors.TypeInvalidParameter, body.Error.Type)
		assert.Equal(t, errors.CodeInvalidParameter, body.Error.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v23.0/15550123456/messages", strings.NewReader("{broken"))
		rec := httptest.NewRecorder()
		h.server.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVersionAndIdentityGates(t *testing.T) {
	h := newHarness(t)
	body := types.SendMessageRequest{To: "15551234567"}

	t.Run("wrong version", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/v19.0/15550123456/messages", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var graph errors.GraphErrorBody
		decodeJSON(t, rec, &graph)
		assert.Equal(t, errors.TypeUnsupportedVersion, graph.Error.Type)
	})

	t.Run("wrong identity", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/v23.0/19990000000/messages", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var graph errors.GraphErrorBody
		decodeJSON(t, rec, &graph)
		assert.Equal(t, errors.TypeOAuthException, graph.Error.Type)
	})

	t.Run("both wrong reports version first", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/v19.0/19990000000/messages", body)

		var graph errors.GraphErrorBody
		decodeJSON(t, rec, &graph)
		assert.Equal(t, errors.TypeUnsupportedVersion, graph.Error.Type)
	})

	t.Run("plus prefixed identity accepted", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/v23.0/+15550123456/messages", body)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestUploadMediaEndpoint(t *testing.T) {
	h := newHarness(t)

	buf, contentType := multipartUpload(t, map[string]string{
		"messaging_product": "whatsapp",
		"type":              "image/jpeg",
	}, "file", "photo.jpg", "image/jpeg", "fake jpeg bytes")

	req := httptest.NewRequest(http.MethodPost, "/v23.0/15550123456/media", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.UploadMediaResponse
	decodeJSON(t, rec, &resp)
	assert.Regexp(t, `^mock_\d+_[a-z0-9]+$`, resp.ID)
	assert.True(t, h.store.IsValid(resp.ID))
}

func TestUploadMediaEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]string
		fileField string
		mimeType  string
	}{
		{
			name:      "missing file",
			fields:    map[string]string{"messaging_product": "whatsapp"},
			fileField: "",
		},
		{
			name:      "unsupported mime type",
			fields:    map[string]string{"messaging_product": "whatsapp"},
			fileField: "file",
			mimeType:  "application/pdf",
		},
		{
			name:      "wrong messaging product",
			fields:    map[string]string{"messaging_product": "telegram"},
			fileField: "file",
			mimeType:  "image/jpeg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			buf, contentType := multipartUpload(t, tt.fields, tt.fileField, "f.bin", tt.mimeType, "data")
			req := httptest.NewRequest(http.MethodPost, "/v23.0/15550123456/media", buf)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.server.Router().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var graph errors.GraphErrorBody
			decodeJSON(t, rec, &graph)
			assert.Equal(t, errors.TypeInvalidParameter, graph.Error.Type)

			var health models.HealthResponse
			decodeJSON(t, h.do(t, http.MethodGet, "/debug/health", nil), &health)
			assert.Equal(t, 0, health.MediaCount, "rejected upload must not be stored")
		})
	}
}

func TestDebugHealth(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/debug/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthResponse
	decodeJSON(t, rec, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.MediaCount)
	assert.Equal(t, "0 media file(s) stored", health.Note)
}

func TestDebugMediaLifecycle(t *testing.T) {
	h := newHarness(t)

	var uploaded []string
	for i := 0; i < 3; i++ {
		entry, err := h.store.Upload(mediastore.UploadRequest{
			Filename:         "photo.jpg",
			MimeType:         "image/jpeg",
			Size:             512,
			FileCount:        1,
			MessagingProduct: "whatsapp",
		})
		require.NoError(t, err)
		uploaded = append(uploaded, entry.ID)
	}

	var list models.MediaListResponse
	decodeJSON(t, h.do(t, http.MethodGet, "/debug/media/list", nil), &list)
	require.Len(t, list.Media, 3)
	assert.Equal(t, "3 media file(s) stored", list.Note)

	var expireAll models.ExpireAllResponse
	decodeJSON(t, h.do(t, http.MethodPost, "/debug/media/expire/all", nil), &expireAll)
	assert.Equal(t, 3, expireAll.Count)
	assert.ElementsMatch(t, uploaded, expireAll.ExpiredMediaIDs)

	*h.now = h.now.Add(time.Second)

	decodeJSON(t, h.do(t, http.MethodGet, "/debug/media/list", nil), &list)
	assert.Empty(t, list.Media)
	assert.Equal(t, "0 media file(s) stored", list.Note)
}

func TestDebugMediaExpireOne(t *testing.T) {
	h := newHarness(t)

	entry, err := h.store.Upload(mediastore.UploadRequest{
		Filename:         "photo.jpg",
		MimeType:         "image/jpeg",
		Size:             512,
		FileCount:        1,
		MessagingProduct: "whatsapp",
	})
	require.NoError(t, err)

	var resp models.ExpireOneResponse
	decodeJSON(t, h.do(t, http.MethodPost, "/debug/media/expire/"+entry.ID, nil), &resp)
	assert.Equal(t, entry.ID, resp.ID)
	assert.True(t, resp.Expired)

	*h.now = h.now.Add(time.Second)
	assert.False(t, h.store.IsValid(entry.ID))
}

func TestDebugMediaExpireOne_Unknown(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/debug/media/expire/mock_0_missing0", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebugSimulateIncoming(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/debug/simulate-incoming", models.SimulateIncomingRequest{
		From: "15551234567",
		Name: "Test User",
		Body: "hello emulator",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SimulateResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "accepted", resp.Status)
	assert.Regexp(t, `^mock_\d+_[a-z0-9]+$`, resp.MessageID)

	payload := h.waitPayload(t)
	messages := payload.Entry[0].Changes[0].Value.Messages
	require.Len(t, messages, 1)
	assert.Equal(t, resp.MessageID, messages[0].ID, "debug response and webhook payload agree on the id")
	assert.Equal(t, "hello emulator", messages[0].Text.Body)

	contacts := payload.Entry[0].Changes[0].Value.Contacts
	require.Len(t, contacts, 1)
	assert.Equal(t, "Test User", contacts[0].Profile.Name)
}

func TestDebugSimulateIncoming_MissingFrom(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/debug/simulate-incoming", models.SimulateIncomingRequest{Body: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDebugSendInteractive(t *testing.T) {
	h := newHarness(t)

	t.Run("button reply", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/debug/messages/send-interactive", models.SendInteractiveRequest{
			Type:  types.InteractiveTypeButtonReply,
			From:  "15551234567",
			ID:    "btn_yes",
			Title: "Yes",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.SimulateResponse
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "accepted", resp.Status)

		payload := h.waitPayload(t)
		msg := payload.Entry[0].Changes[0].Value.Messages[0]
		require.NotNil(t, msg.Interactive)
		assert.Equal(t, types.InteractiveTypeButtonReply, msg.Interactive.Type)
		assert.Equal(t, "btn_yes", msg.Interactive.ButtonReply.ID)
	})

	t.Run("list reply", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/debug/messages/send-interactive", models.SendInteractiveRequest{
			Type:        types.InteractiveTypeListReply,
			From:        "15551234567",
			ID:          "row_1",
			Title:       "First",
			Description: "First row",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		payload := h.waitPayload(t)
		msg := payload.Entry[0].Changes[0].Value.Messages[0]
		require.NotNil(t, msg.Interactive)
		assert.Equal(t, types.InteractiveTypeListReply, msg.Interactive.Type)
		assert.Equal(t, "First row", msg.Interactive.ListReply.Description)
	})

	t.Run("unknown type", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/debug/messages/send-interactive", models.SendInteractiveRequest{
			Type: "carousel", From: "1", ID: "x", Title: "y",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing reply fields", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/debug/messages/send-interactive", models.SendInteractiveRequest{
			Type: types.InteractiveTypeButtonReply, From: "1",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDebugMetricsEndpoint(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/debug/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.Contains(t, body, "counters")
	assert.Contains(t, body, "timers")
	assert.Contains(t, body, "uptime_ms")
}

func TestServerLifecycle(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	h.server.cfg.Persistence = models.PersistenceConfig{
		ImportPath:   dir,
		ExportOnExit: true,
	}

	require.NoError(t, h.server.Start())
	require.NotEmpty(t, h.server.Addr())

	_, err := h.store.Upload(mediastore.UploadRequest{
		Filename:         "photo.jpg",
		MimeType:         "image/jpeg",
		Size:             512,
		FileCount:        1,
		MessagingProduct: "whatsapp",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.server.Stop(ctx))

	restored := mediastore.NewWithClock(func() time.Time { return *h.now }, nil)
	loaded, _, err := restored.Import(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
}
