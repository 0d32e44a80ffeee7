package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/rosepay/client-go/domain"
)

const tokenTTL = 24 * time.Hour

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return detail(c, http.StatusBadRequest, "email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return detail(c, http.StatusBadRequest, "Email already registered")
	}

	s.nextUserID++
	acct := &account{
		user: domain.User{
			ID:        s.nextUserID,
			Email:     req.Email,
			FullName:  req.FullName,
			IsActive:  true,
			CreatedAt: now(),
		},
		passwordHash: string(hash),
	}
	s.users[acct.user.ID] = acct
	s.byEmail[req.Email] = acct.user.ID

	return c.JSON(http.StatusCreated, acct.user)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	id, ok := s.byEmail[req.Email]
	var acct *account
	if ok {
		acct = s.users[id]
	}
	s.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(req.Password)) != nil {
		return detail(c, http.StatusUnauthorized, "Incorrect email or password")
	}

	claims := jwt.MapClaims{
		"sub":   acct.user.ID,
		"email": acct.user.Email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not issue token")
	}

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        acct.user,
	})
}

// requireAuth validates the bearer token and stashes the caller's user ID.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return detail(c, http.StatusUnauthorized, "Not authenticated")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return detail(c, http.StatusUnauthorized, "Could not validate credentials")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return detail(c, http.StatusUnauthorized, "Could not validate credentials")
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			return detail(c, http.StatusUnauthorized, "Could not validate credentials")
		}
		c.Set("user_id", int(sub))

		return next(c)
	}
}

func userID(c echo.Context) int {
	id, _ := c.Get("user_id").(int)
	return id
}
