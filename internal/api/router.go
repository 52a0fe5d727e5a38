package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/prft/internal/auth"
	"github.com/erazemk/prft/internal/ledger"
	"github.com/erazemk/prft/internal/model"
)

// Deps are the collaborators the API is built from.
type Deps struct {
	DB          *sql.DB
	Tokens      *auth.Tokens
	Ledger      *ledger.Ledger
	CORSOrigins []string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, Tokens: d.Tokens}
	usersHandler := &UsersHandler{DB: d.DB}
	itemsHandler := &ItemsHandler{Ledger: d.Ledger}
	statsHandler := &StatsHandler{Ledger: d.Ledger}
	liveHandler := NewLiveHandler(d.Ledger, d.CORSOrigins)

	authMW := AuthMiddleware(d.Tokens, d.DB)
	liveMW := QueryTokenMiddleware(d.Tokens, d.DB)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: signup and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items, scoped to the signed-in owner.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PATCH /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/items/{id}/toggle", authMW(http.HandlerFunc(itemsHandler.Toggle)))
	mux.Handle("POST /api/items/{id}/restore", authMW(http.HandlerFunc(itemsHandler.Restore)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Derived views.
	mux.Handle("GET /api/stats", authMW(http.HandlerFunc(statsHandler.Dashboard)))
	mux.Handle("POST /api/estimate", authMW(http.HandlerFunc(statsHandler.Estimate)))
	mux.Handle("GET /api/fees", authMW(http.HandlerFunc(statsHandler.Fees)))
	mux.Handle("PUT /api/fees/{platform}", authMW(requireAdmin(http.HandlerFunc(statsHandler.SetFee))))
	mux.Handle("DELETE /api/fees/{platform}", authMW(requireAdmin(http.HandlerFunc(statsHandler.ClearFee))))
	mux.Handle("GET /api/export", authMW(http.HandlerFunc(statsHandler.Export)))

	// Live feed; browsers cannot set headers on websocket requests.
	mux.Handle("GET /api/live", liveMW(http.HandlerFunc(liveHandler.Serve)))

	return CORS(d.CORSOrigins, mux)
}
