package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"muze-kasif/internal/session"
)

type createdSession struct {
	ID    string        `json:"id"`
	Frame session.Frame `json:"frame"`
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()
	writeJSON(w, http.StatusCreated, createdSession{ID: s.ID, Frame: s.Orch.Snapshot()})
}

func (h *handler) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return s, true
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Rec.Poll())
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type eventResponse struct {
	Changed bool         `json:"changed"`
	View    session.View `json:"view"`
}

func (h *handler) postEvent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var p session.Payload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body")
		return
	}
	ev, err := session.DecodeEvent(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	changed := s.Orch.Dispatch(ev)
	writeJSON(w, http.StatusOK, eventResponse{Changed: changed, View: s.Rec.Poll()})
}
