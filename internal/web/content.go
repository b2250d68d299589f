package web

import (
	"net/http"
	"strings"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/storage"
)

type createRuleRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Explanation   string `json:"explanation" validate:"required"`
	TitleEn       string `json:"titleEn" validate:"max=200"`
	ExplanationEn string `json:"explanationEn"`
	TitleUk       string `json:"titleUk" validate:"max=200"`
	ExplanationUk string `json:"explanationUk"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=A1 A2 B1 B2"`
}

type updateRuleRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=200"`
	Explanation   *string `json:"explanation"`
	TitleEn       *string `json:"titleEn" validate:"omitempty,max=200"`
	ExplanationEn *string `json:"explanationEn"`
	TitleUk       *string `json:"titleUk" validate:"omitempty,max=200"`
	ExplanationUk *string `json:"explanationUk"`
	Difficulty    *string `json:"difficulty" validate:"omitempty,oneof=A1 A2 B1 B2"`
}

type verbLearnedRequest struct {
	Learned *bool `json:"learned" validate:"required"`
}

func (s *Server) handleListRules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var difficulty domain.Level
		if v := r.URL.Query().Get("level"); v != "" {
			l, err := domain.ParseLevel(v)
			if err != nil || !l.IsCEFR() {
				respondFieldError(w, "level", "level must be one of A1, A2, B1, B2")
				return
			}
			difficulty = l
		}
		rules, err := s.db.ListRules(r.Context(), difficulty)
		if s.handleStoreError(w, err, "rules") {
			return
		}
		respondJSON(w, http.StatusOK, rules)
	}
}

func (s *Server) handleCreateRule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRuleRequest
		if !s.decode(w, r, &req) {
			return
		}
		rule, err := s.db.CreateRule(r.Context(), domain.Rule{
			Title:         req.Title,
			Explanation:   req.Explanation,
			TitleEn:       req.TitleEn,
			ExplanationEn: req.ExplanationEn,
			TitleUk:       req.TitleUk,
			ExplanationUk: req.ExplanationUk,
			Difficulty:    domain.Level(req.Difficulty),
		})
		if s.handleStoreError(w, err, "rule") {
			return
		}
		respondJSON(w, http.StatusCreated, rule)
	}
}

func (s *Server) handleUpdateRule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req updateRuleRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
			respondFieldError(w, "title", "title must not be empty")
			return
		}
		if req.Explanation != nil && strings.TrimSpace(*req.Explanation) == "" {
			respondFieldError(w, "explanation", "explanation must not be empty")
			return
		}
		u := storage.RuleUpdate{
			Title:         req.Title,
			Explanation:   req.Explanation,
			TitleEn:       req.TitleEn,
			ExplanationEn: req.ExplanationEn,
			TitleUk:       req.TitleUk,
			ExplanationUk: req.ExplanationUk,
		}
		if req.Difficulty != nil {
			l := domain.Level(*req.Difficulty)
			u.Difficulty = &l
		}
		rule, err := s.db.UpdateRule(r.Context(), id, u)
		if s.handleStoreError(w, err, "rule") {
			return
		}
		respondJSON(w, http.StatusOK, rule)
	}
}

func (s *Server) handleDeleteRule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if s.handleStoreError(w, s.db.DeleteRule(r.Context(), id), "rule") {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleListVerbs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verbs, err := s.db.ListVerbs(r.Context())
		if s.handleStoreError(w, err, "verbs") {
			return
		}
		respondJSON(w, http.StatusOK, verbs)
	}
}

func (s *Server) handleVerbLearned() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req verbLearnedRequest
		if !s.decode(w, r, &req) {
			return
		}
		verb, err := s.db.SetVerbLearned(r.Context(), id, *req.Learned)
		if s.handleStoreError(w, err, "verb") {
			return
		}
		respondJSON(w, http.StatusOK, verb)
	}
}

// handleTranslate pre-fills translations for the add-word form. It always
// answers 200; missing translations are empty strings.
func (s *Server) handleTranslate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.translator.Translate(r.Context(), r.URL.Query().Get("word")))
	}
}

func (s *Server) handleContext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.search.Search(r.Context(), r.URL.Query().Get("q")))
	}
}

func (s *Server) handleContextCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.db.CountSentences(r.Context())
		if s.handleStoreError(w, err, "sentences") {
			return
		}
		respondJSON(w, http.StatusOK, map[string]int{"count": n})
	}
}
