package models

import "time"

type User struct {
	ID           int       `json:"id"`
	UUID         string    `json:"uuid"`
	NomeCompleto string    `json:"nome_completo"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	NomeCompleto string `json:"nome_completo"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

type LoginRequest struct {
	// Login aceita username ou email no mesmo campo.
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresIn int    `json:"expires_in"`
}

// Perfil nunca inclui o hash da senha.
type Perfil struct {
	NomeCompleto string `json:"nome_completo"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}
