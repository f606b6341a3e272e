package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"kanban-board/database"
	"kanban-board/services"
)

// pathID reads a numeric path variable. Routes constrain ids to digits, so
// a var that matched cannot fail to parse.
func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

// NewRouter wires every route of the API. Register, login and health are
// open; everything else sits behind the auth gate.
func NewRouter(authService *services.AuthService, dataService *database.DataService) *mux.Router {
	authHandler := NewAuthHandler(authService, dataService)
	boardHandler := NewBoardHandler(dataService)
	columnHandler := NewColumnHandler(dataService)
	taskHandler := NewTaskHandler(dataService)
	commentHandler := NewCommentHandler(dataService)
	authMiddleware := NewAuthMiddleware(authService)

	r := mux.NewRouter()
	r.Use(RequestLogger, Recover)
	r.NotFoundHandler = RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "Route not found")
	}))

	// Open routes
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", Health).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(authMiddleware.Auth)

	protected.HandleFunc("/boards/{boardId:[0-9]+}", boardHandler.Get).Methods("GET")
	protected.HandleFunc("/boards/{boardId:[0-9]+}/columns", boardHandler.ListColumns).Methods("GET")
	protected.HandleFunc("/boards/{boardId:[0-9]+}/columns", boardHandler.CreateColumn).Methods("POST")

	protected.HandleFunc("/columns/{columnId:[0-9]+}", columnHandler.Update).Methods("PATCH")
	protected.HandleFunc("/columns/{columnId:[0-9]+}", columnHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/tasks/columns/{columnId:[0-9]+}/tasks", taskHandler.List).Methods("GET")
	protected.HandleFunc("/tasks/columns/{columnId:[0-9]+}/tasks", taskHandler.Create).Methods("POST")
	protected.HandleFunc("/tasks/{taskId:[0-9]+}", taskHandler.Update).Methods("PATCH")
	protected.HandleFunc("/tasks/{taskId:[0-9]+}", taskHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/comments/tasks/{taskId:[0-9]+}/comments", commentHandler.List).Methods("GET")
	protected.HandleFunc("/comments/tasks/{taskId:[0-9]+}/comments", commentHandler.Create).Methods("POST")

	return r
}
