package web

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuth guards the HTTP endpoints with a username and a bcrypt
// hash of the password.
type BasicAuth struct {
	Username string
	Hash     []byte
}

// protect wraps a handler with basic-auth checking. With no auth
// configured the handler is returned unchanged.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.auth.Username)) != 1 ||
			bcrypt.CompareHashAndPassword(s.auth.Hash, []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="argon-oled"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
