package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ButyrinIA/innerpeace/internal/models"
	"github.com/ButyrinIA/innerpeace/internal/storage"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

const (
	msgNotFound        = "Not found"
	msgPostNotFound    = "Post not found"
	msgUnauthorized    = "Unauthorized"
	msgFieldsRequired  = "Author and content required"
	msgDatabaseReady   = "Database initialized"
	adminPasswordParam = "adminPassword"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) initDB(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Init(r.Context()); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msgDatabaseReady})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := s.storage.ListPosts(ctx)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	if err := attachSuggestions(ctx, newSuggestionLoader(s.storage), posts); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !s.decode(w, r, &req) {
		return
	}
	fields, ok := s.requireFields(w, req.Author, req.Content)
	if !ok {
		return
	}

	post := &models.Post{Author: fields.Author, Content: fields.Content}
	if err := s.storage.CreatePost(r.Context(), post); err != nil {
		s.storeError(w, r, err)
		return
	}
	post.Suggestions = []models.Suggestion{}
	writeJSON(w, http.StatusCreated, post)
}

// createSuggestion не проверяет существование поста: висячую ссылку отклоняет внешний ключ хранилища.
func (s *Server) createSuggestion(w http.ResponseWriter, r *http.Request) {
	postID := pathID(r)

	var req createSuggestionRequest
	if !s.decode(w, r, &req) {
		return
	}
	fields, ok := s.requireFields(w, req.Author, req.Content)
	if !ok {
		return
	}

	suggestion := &models.Suggestion{
		PostID:  postID,
		Author:  fields.Author,
		Content: fields.Content,
		IsAdmin: truthy(req.IsAdmin),
	}
	if err := s.storage.CreateSuggestion(r.Context(), suggestion); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, suggestion)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	postID := pathID(r)

	if !s.authorized(r.URL.Query().Get(adminPasswordParam)) {
		writeError(w, http.StatusForbidden, msgUnauthorized)
		return
	}

	err := s.storage.DeletePost(r.Context(), postID)
	switch {
	case errors.Is(err, storage.ErrPostNotFound):
		writeError(w, http.StatusNotFound, msgPostNotFound)
	case err != nil:
		s.storeError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

// authorized сравнивает пароль с секретом администратора. Пустой секрет запрещает удаление.
func (s *Server) authorized(password string) bool {
	secret := s.cfg.Admin.Password
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(secret)) == 1
}

// decode читает тело запроса.
// Тело, которое не разбирается как JSON-объект, считается запросом без полей.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, msgFieldsRequired)
		return false
	}
	return true
}

func (s *Server) requireFields(w http.ResponseWriter, author, content any) (requiredFields, bool) {
	fields := newRequiredFields(author, content)
	if err := s.validate.Struct(fields); err != nil {
		writeError(w, http.StatusBadRequest, msgFieldsRequired)
		return fields, false
	}
	return fields, true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[%s] Ошибка хранилища: %v", requestID(r.Context()), err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// pathID разбирает {id} из пути. Нечисловой id превращается в 0, которому не соответствует ни одна строка.
func pathID(r *http.Request) int64 {
	return leadingInt(mux.Vars(r)["id"])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Ошибка записи ответа: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
