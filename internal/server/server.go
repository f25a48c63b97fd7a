package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ButyrinIA/innerpeace/internal/config"
	"github.com/ButyrinIA/innerpeace/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type Server struct {
	cfg      *config.Config
	storage  storage.Storage
	validate *validator.Validate
	handler  http.Handler
}

func New(cfg *config.Config, storage storage.Storage) *Server {
	s := &Server{
		cfg:      cfg,
		storage:  storage,
		validate: validator.New(),
	}
	if cfg.Admin.Password == "" {
		log.Println("Пароль администратора не задан: DELETE /posts/{id} всегда отвечает 403")
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	// Путь уже нормализован в normalizePath; очистка mux ответила бы редиректом без тела.
	r := mux.NewRouter().SkipClean(true)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/init-db", s.initDB)
	r.HandleFunc("/posts", s.listPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts", s.createPost).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}/suggestions", s.createSuggestion).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}", s.deletePost).Methods(http.MethodDelete)

	// Неподходящий метод на известном пути - такой же промах маршрутизации.
	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.notFound)

	return requestLog(cors(recoverer(normalizePath(r))))
}

// Handler возвращает корневой обработчик со всеми middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Сервер слушает порт %s", s.cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Остановка сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
