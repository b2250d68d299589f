package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/queue"
	"github.com/Cyber-shmuck/Dutch/internal/review"
	"github.com/Cyber-shmuck/Dutch/internal/storage"
)

type createWordRequest struct {
	Dutch         string `json:"dutch" validate:"required,max=200"`
	Translation   string `json:"translation" validate:"max=500"`
	TranslationRu string `json:"translationRu" validate:"max=500"`
	TranslationEn string `json:"translationEn" validate:"max=500"`
	TranslationUk string `json:"translationUk" validate:"max=500"`
	Level         string `json:"level"`
	InRepeatList  bool   `json:"inRepeatList"`
}

type answerRequest struct {
	Mode    string `json:"mode" validate:"required,oneof=new my learned review"`
	SubMode string `json:"subMode" validate:"omitempty,oneof=weak list"`
	Answer  string `json:"answer" validate:"required,oneof=know dont-know"`
}

type repeatListRequest struct {
	Listed *bool `json:"listed" validate:"required"`
}

func (s *Server) handleListWords() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		words, err := s.db.ListWords(r.Context())
		if s.handleStoreError(w, err, "words") {
			return
		}
		respondJSON(w, http.StatusOK, words)
	}
}

// handleQueue builds the study queue of one mode. A failure to list the
// words is the only error that keeps a session from starting.
func (s *Server) handleQueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, field, err := parseFilter(r)
		if err != nil {
			respondFieldError(w, field, err.Error())
			return
		}
		words, err := s.db.ListWords(r.Context())
		if err != nil {
			s.logger.Error("failed to list words for queue", "mode", f.Mode, "error", err)
			respondError(w, http.StatusInternalServerError, codeInternal, "could not load words")
			return
		}
		respondJSON(w, http.StatusOK, queue.New(queue.Build(words, f)))
	}
}

func parseFilter(r *http.Request) (f queue.Filter, field string, err error) {
	q := r.URL.Query()
	if f.Mode, err = review.ParseMode(q.Get("mode")); err != nil {
		return f, "mode", err
	}
	switch f.Mode {
	case review.ModeNew, review.ModeLearned:
		if f.Level, err = domain.ParseLevel(q.Get("level")); err != nil {
			return f, "level", err
		}
	case review.ModeReview:
		if f.SubMode, err = review.ParseSubMode(q.Get("sub")); err != nil {
			return f, "sub", err
		}
	}
	return f, "", nil
}

func (s *Server) handleCreateWord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWordRequest
		if !s.decode(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Dutch) == "" {
			respondFieldError(w, "dutch", "dutch is required")
			return
		}
		if req.Translation == "" && req.TranslationRu == "" && req.TranslationEn == "" && req.TranslationUk == "" {
			respondFieldError(w, "translation", "at least one translation is required")
			return
		}
		level := domain.LevelCustom
		if req.Level != "" {
			l, err := domain.ParseLevel(req.Level)
			if err != nil {
				respondFieldError(w, "level", err.Error())
				return
			}
			level = l
		}

		word, err := s.db.CreateWord(r.Context(), domain.NewWord{
			Dutch:         req.Dutch,
			Translation:   req.Translation,
			TranslationRu: req.TranslationRu,
			TranslationEn: req.TranslationEn,
			TranslationUk: req.TranslationUk,
			Level:         level,
			IsUserAdded:   true,
			InRepeatList:  req.InRepeatList,
		})
		if s.handleStoreError(w, err, "word") {
			return
		}
		respondJSON(w, http.StatusCreated, word)
	}
}

func (s *Server) handleAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req answerRequest
		if !s.decode(w, r, &req) {
			return
		}
		t := review.RecordAnswer{
			Mode:    review.Mode(req.Mode),
			SubMode: review.SubMode(req.SubMode),
			Answer:  review.Answer(req.Answer),
		}
		if t.Mode == review.ModeReview && t.SubMode == "" {
			t.SubMode = review.SubModeWeak
		}
		s.applyTransition(w, r, id, t)
	}
}

func (s *Server) handleMarkLearned() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := pathID(w, r); ok {
			s.applyTransition(w, r, id, review.MarkLearned{})
		}
	}
}

func (s *Server) handleUndoLearned() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := pathID(w, r); ok {
			s.applyTransition(w, r, id, review.UndoLearned{})
		}
	}
}

func (s *Server) handleRepeatList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req repeatListRequest
		if !s.decode(w, r, &req) {
			return
		}
		s.applyTransition(w, r, id, review.SetRepeatList{Listed: *req.Listed})
	}
}

// applyTransition persists the patch of t and responds with the updated word.
// Store failures are reported as not_persisted so the client keeps its
// previous state of the word.
func (s *Server) applyTransition(w http.ResponseWriter, r *http.Request, id int64, t review.Transition) {
	p, err := review.Next(t)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	word, err := s.db.ApplyWordPatch(r.Context(), id, p)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "word not found")
		return
	}
	if err != nil {
		s.logger.Error("transition not persisted", "word_id", id, "transition", t.String(), "error", err)
		respondError(w, http.StatusInternalServerError, codeNotPersisted, "progress was not saved")
		return
	}
	respondJSON(w, http.StatusOK, word)
}

func (s *Server) handleDeleteWord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if s.handleStoreError(w, s.db.DeleteWord(r.Context(), id), "word") {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
