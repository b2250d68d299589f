package web

import (
	"errors"
	"net/http"

	"github.com/Cyber-shmuck/Dutch/internal/storage"
	"github.com/Cyber-shmuck/Dutch/internal/sync"
)

type addSourceRequest struct {
	Path string `json:"path" validate:"required"`
}

func (s *Server) handleListSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sources, err := s.db.GetAllSources(r.Context())
		if s.handleStoreError(w, err, "sources") {
			return
		}
		respondJSON(w, http.StatusOK, sources)
	}
}

func (s *Server) handleAddSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addSourceRequest
		if !s.decode(w, r, &req) {
			return
		}
		src, err := s.syncer.AddSource(r.Context(), req.Path)
		switch {
		case errors.Is(err, sync.ErrInvalidSource):
			respondFieldError(w, "path", err.Error())
			return
		case errors.Is(err, storage.ErrDuplicate):
			respondError(w, http.StatusConflict, codeConflict, "source already registered")
			return
		case s.handleStoreError(w, err, "source"):
			return
		}
		s.logger.Info("Added new source", "id", src.ID, "type", src.Type, "path", src.Path)
		respondJSON(w, http.StatusCreated, src)
	}
}

// handleDeleteSource removes a source together with its sentences.
func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if s.handleStoreError(w, s.db.DeleteSource(r.Context(), id), "source") {
			return
		}
		s.search.Invalidate(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSync triggers a manual sync and returns its report.
func (s *Server) handleSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.syncer.RunSync(r.Context())
		if errors.Is(err, sync.ErrSyncInProgress) {
			respondError(w, http.StatusConflict, codeConflict, err.Error())
			return
		}
		if err != nil {
			s.logger.Error("Error during manual sync", "error", err)
			respondError(w, http.StatusInternalServerError, codeInternal, "sync failed")
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}
