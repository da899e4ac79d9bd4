package api

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/dayhire/pkg/models"
	"github.com/garnizeh/dayhire/pkg/repository"
)

// AuthHandler is the auth boundary: it mints the opaque user identity the
// data layer consumes. Credentials live in their own collection and never
// travel past this handler.
type AuthHandler struct {
	users         repository.UserRepo
	credentials   repository.CredentialRepo
	jwtSecret     string
	tokenDuration time.Duration
}

func NewAuthHandler(ur repository.UserRepo, cr repository.CredentialRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{users: ur, credentials: cr, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoURL"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user,omitempty"`
	Warning string       `json:"warning,omitempty"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}
	role := models.Role(req.Role)
	if role != models.RoleWorker && role != models.RoleHire {
		http.Error(w, "Role must be worker or hire", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if existing, err := h.credentials.GetByEmail(ctx, req.Email); err != nil {
		writeError(w, err)
		return
	} else if existing != nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	// first sign-in creates the user record under a freshly minted opaque id
	uid := uuid.NewString()
	user := models.User{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     role,
	}
	if err := h.users.Create(ctx, uid, &user); err != nil {
		writeError(w, err)
		return
	}
	user.ID = uid

	// second, independent write: a failure here leaves the user persisted
	// without a credential, and is reported distinctly so the caller can
	// decide whether to compensate
	cred := models.Credential{UserID: uid, Email: req.Email, PasswordHash: string(hash)}
	warning := ""
	if _, err := h.credentials.Create(ctx, &cred); err != nil {
		logger.Error("credential create failed after user create", "user_id", uid, "err", err)
		warning = "account created but sign-in credential was not stored; contact support"
	}

	token, err := h.issueToken(uid, &user)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: &user, Warning: warning})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	cred, err := h.credentials.GetByEmail(ctx, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if cred == nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	user, err := h.users.Get(ctx, cred.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	token, err := h.issueToken(cred.UserID, user)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// stateless JWT: signout is client-side (just delete the token)
	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *AuthHandler) issueToken(uid string, user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   uid,
		"name":  user.Name,
		"photo": user.PhotoURL,
		"role":  string(user.Role),
		"exp":   time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}
