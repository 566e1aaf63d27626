package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"wamock/internal/errors"
	"wamock/internal/mediastore"
	"wamock/internal/models"
	"wamock/pkg/cloudapi/types"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Upload parsing keeps at most this much in memory; larger parts spill to
// disk. Above the store's own 5 MiB cap either way.
const maxUploadMemoryBytes = 8 << 20

func (s *Server) handleSendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errors.WriteError(w, errors.NewValidationError("body", "request body is not valid JSON"))
			return
		}
		if req.To == "" {
			errors.WriteError(w, errors.NewValidationError("to", "recipient is required"))
			return
		}

		resp := s.msgService.SendMessage(&req)

		s.logger.WithFields(logrus.Fields{
			"message_id": resp.Messages[0].ID,
			"to":         req.To,
		}).Info("Outbound message accepted")

		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleUploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemoryBytes); err != nil {
			errors.WriteError(w, errors.NewValidationError("file", "no file provided"))
			return
		}

		files := r.MultipartForm.File["file"]
		fileCount := 0
		for _, headers := range r.MultipartForm.File {
			fileCount += len(headers)
		}

		req := mediastore.UploadRequest{
			FileCount:        fileCount,
			MessagingProduct: r.FormValue("messaging_product"),
		}
		if len(files) > 0 {
			header := files[0]
			req.Filename = header.Filename
			req.MimeType = header.Header.Get("Content-Type")
			req.Size = header.Size
		}

		entry, err := s.store.Upload(req)
		if err != nil {
			errors.WriteError(w, err)
			return
		}

		// File bytes are discarded here; the emulator persists metadata only.
		writeJSON(w, http.StatusOK, types.UploadMediaResponse{ID: entry.ID})
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := s.store.Count()
		writeJSON(w, http.StatusOK, models.HealthResponse{
			Status:     "ok",
			MediaCount: count,
			Note:       fmt.Sprintf("%d media file(s) stored", count),
		})
	}
}

func (s *Server) handleMediaList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, note := s.store.List()
		writeJSON(w, http.StatusOK, models.MediaListResponse{
			Media: entries,
			Note:  note,
		})
	}
}

func (s *Server) handleMediaExpireAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expired := s.store.ExpireAll()
		writeJSON(w, http.StatusOK, models.ExpireAllResponse{
			ExpiredMediaIDs: expired,
			Count:           len(expired),
		})
	}
}

func (s *Server) handleMediaExpireOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := s.store.ExpireOne(id); err != nil {
			errors.WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, models.ExpireOneResponse{ID: id, Expired: true})
	}
}

func (s *Server) handleSimulateIncoming() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SimulateIncomingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errors.WriteError(w, errors.NewValidationError("body", "request body is not valid JSON"))
			return
		}
		if req.From == "" {
			errors.WriteError(w, errors.NewValidationError("from", "sender is required"))
			return
		}

		messageID := s.msgService.SimulateIncomingText(req)

		// Accepted means handed to the dispatcher, not delivered.
		writeJSON(w, http.StatusOK, models.SimulateResponse{
			Status:    "accepted",
			MessageID: messageID,
		})
	}
}

func (s *Server) handleSendInteractive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SendInteractiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errors.WriteError(w, errors.NewValidationError("body", "request body is not valid JSON"))
			return
		}
		if req.Type != types.InteractiveTypeButtonReply && req.Type != types.InteractiveTypeListReply {
			errors.WriteError(w, errors.NewValidationError("type", fmt.Sprintf("type must be %q or %q", types.InteractiveTypeButtonReply, types.InteractiveTypeListReply)))
			return
		}
		if req.From == "" {
			errors.WriteError(w, errors.NewValidationError("from", "sender is required"))
			return
		}
		if req.ID == "" || req.Title == "" {
			errors.WriteError(w, errors.NewValidationError("id", "reply id and title are required"))
			return
		}

		messageID := s.msgService.SimulateInteractiveReply(req)

		writeJSON(w, http.StatusOK, models.SimulateResponse{
			Status:    "accepted",
			MessageID: messageID,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
