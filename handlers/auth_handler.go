package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	adminKeyHash []byte
	jwtSecret    []byte
}

func NewAuthHandler(adminKeyHash, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		adminKeyHash: []byte(adminKeyHash),
		jwtSecret:    []byte(jwtSecret),
	}
}

// Token выдает админский JWT в обмен на ключ администратора.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AdminKey string `json:"admin_key"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.AdminKey == "" {
		badRequestResponse(w, r, errors.New("admin_key is required"))
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.adminKeyHash, []byte(input.AdminKey)); err != nil {
		unauthorizedResponse(w, r, "invalid admin key")
		return
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"token": tokenString,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
