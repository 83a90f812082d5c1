package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/councilhq/council/store"
)

type createConversationRequest struct {
	// ID for the new conversation. Generated when omitted.
	ID string `json:"id"`
}

type userMessageRequest struct {
	Content string `json:"content"`
}

type assistantMessageRequest struct {
	Stage1 []json.RawMessage `json:"stage1"`
	Stage2 []json.RawMessage `json:"stage2"`
	Stage3 json.RawMessage   `json:"stage3"`
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var request createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	conversation, err := s.store.Create(r.Context(), request.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusCreated, conversation)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conversation, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, conversation)
}

func (s *Server) handleAddUserMessage(w http.ResponseWriter, r *http.Request) {
	var request userMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Content == "" {
		Error(w, http.StatusBadRequest, "content must not be empty")
		return
	}

	if err := s.store.AddUserMessage(r.Context(), chi.URLParam(r, "id"), request.Content); err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddAssistantMessage(w http.ResponseWriter, r *http.Request) {
	var request assistantMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.AddAssistantMessage(r.Context(), id, request.Stage1, request.Stage2, request.Stage3); err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	var request updateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Title == "" {
		Error(w, http.StatusBadRequest, "title must not be empty")
		return
	}

	if err := s.store.UpdateTitle(r.Context(), chi.URLParam(r, "id"), request.Title); err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// storeError maps store errors onto HTTP statuses. Anything that is not a
// NotFound or duplicate-id condition surfaces as a 500 in its backend-native
// form; the store performs no translation of its own.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		Error(w, http.StatusNotFound, "conversation not found")
	case store.IsAlreadyExists(err):
		Error(w, http.StatusConflict, "conversation already exists")
	case store.IsInvalidID(err):
		Error(w, http.StatusBadRequest, "invalid conversation id")
	default:
		Error(w, http.StatusInternalServerError, err.Error())
	}
}
