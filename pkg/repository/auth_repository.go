package repository

import (
	"database/sql"
	"strings"

	"srrobot/pkg/models"
)

type AuthRepository interface {
	CreateUser(nomeCompleto, email, username, hashedPassword string) (models.User, error)
	// GetUserByLogin busca por username OU email num único lookup.
	GetUserByLogin(login string) (models.User, string, error)
	GetUserByID(id int) (models.User, error)
	// ExistsByEmailOrUsername é o check disjuntivo de conflito do registro.
	ExistsByEmailOrUsername(email, username string) (bool, error)
}

type authRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(nomeCompleto, email, username, hashedPassword string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`INSERT INTO users (nome_completo, email, username, password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, uuid, nome_completo, email, username, created_at`,
		nomeCompleto, strings.ToLower(email), strings.ToLower(username), hashedPassword,
	).Scan(&user.ID, &user.UUID, &user.NomeCompleto, &user.Email, &user.Username, &user.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return models.User{}, ErrDuplicado
	}
	return user, err
}

func (r *authRepository) GetUserByLogin(login string) (models.User, string, error) {
	var user models.User
	var hashedPw string
	err := r.db.QueryRow(
		`SELECT id, uuid, nome_completo, email, username, password, created_at
		 FROM users WHERE username = $1 OR email = $1`,
		strings.ToLower(login),
	).Scan(&user.ID, &user.UUID, &user.NomeCompleto, &user.Email, &user.Username, &hashedPw, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, "", ErrNaoEncontrado
	}
	return user, hashedPw, err
}

func (r *authRepository) GetUserByID(id int) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`SELECT id, uuid, nome_completo, email, username, created_at
		 FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.UUID, &user.NomeCompleto, &user.Email, &user.Username, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNaoEncontrado
	}
	return user, err
}

func (r *authRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
		strings.ToLower(email), strings.ToLower(username),
	).Scan(&exists)
	return exists, err
}
