package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"srrobot/pkg/models"
	"srrobot/pkg/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL é a validade fixa do token de sessão. Não existe blacklist nem
// sessão no servidor: o token é todo o estado, e logout é o cliente
// descartar a credencial.
const TokenTTL = time.Hour

type AuthService interface {
	Register(req models.RegisterRequest) error
	Login(req models.LoginRequest) (models.AuthResponse, error)
	Profile(userID int) (models.Perfil, error)
}

type cachedUser struct {
	User      models.User
	ExpiresAt time.Time
}

type authService struct {
	repo      repository.AuthRepository
	jwtSecret string

	mu   sync.RWMutex
	byID map[int]*cachedUser
}

// NewAuthService recebe o segredo de assinatura explicitamente; o serviço
// nunca lê ambiente nem estado global.
func NewAuthService(repo repository.AuthRepository, jwtSecret string) AuthService {
	s := &authService{
		repo:      repo,
		jwtSecret: jwtSecret,
		byID:      make(map[int]*cachedUser),
	}
	go s.cleanupUsers()
	return s
}

func (s *authService) Register(req models.RegisterRequest) error {
	req.NomeCompleto = strings.TrimSpace(req.NomeCompleto)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.NomeCompleto == "" || req.Email == "" || req.Username == "" || req.Password == "" {
		return ErrCamposObrigatorios
	}
	if err := validateUsername(req.Username); err != nil {
		return err
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}

	existe, err := s.repo.ExistsByEmailOrUsername(req.Email, req.Username)
	if err != nil {
		return fmt.Errorf("verificar conta existente: %w", err)
	}
	if existe {
		return ErrContaExiste
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash de senha: %w", err)
	}

	user, err := s.repo.CreateUser(req.NomeCompleto, req.Email, req.Username, string(hashed))
	if err != nil {
		// O unique constraint segura a corrida entre o check e o insert.
		if errors.Is(err, repository.ErrDuplicado) {
			return ErrContaExiste
		}
		return fmt.Errorf("criar usuário: %w", err)
	}

	s.setUser(user)
	return nil
}

func (s *authService) Login(req models.LoginRequest) (models.AuthResponse, error) {
	if req.Login == "" || req.Password == "" {
		return models.AuthResponse{}, ErrCamposObrigatorios
	}

	user, hashedPw, err := s.repo.GetUserByLogin(strings.TrimSpace(req.Login))
	if errors.Is(err, repository.ErrNaoEncontrado) {
		return models.AuthResponse{}, ErrCredenciaisInvalidas
	}
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("buscar usuário: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hashedPw), []byte(req.Password)) != nil {
		return models.AuthResponse{}, ErrCredenciaisInvalidas
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("assinar token: %w", err)
	}

	s.setUser(user)
	return models.AuthResponse{
		Token:     token,
		User:      user,
		ExpiresIn: int(TokenTTL.Seconds()),
	}, nil
}

func (s *authService) Profile(userID int) (models.Perfil, error) {
	user, ok := s.getUser(userID)
	if !ok {
		var err error
		user, err = s.repo.GetUserByID(userID)
		if errors.Is(err, repository.ErrNaoEncontrado) {
			return models.Perfil{}, ErrUsuarioNaoEncontrado
		}
		if err != nil {
			return models.Perfil{}, fmt.Errorf("buscar perfil: %w", err)
		}
		s.setUser(user)
	}

	return models.Perfil{
		NomeCompleto: user.NomeCompleto,
		Username:     user.Username,
		Email:        user.Email,
	}, nil
}

func (s *authService) generateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"uuid":     user.UUID,
		"username": user.Username,
		"exp":      time.Now().Add(TokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// Internal Helpers

func (s *authService) getUser(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.byID[id]; ok && time.Now().Before(item.ExpiresAt) {
		return item.User, true
	}
	return models.User{}, false
}

func (s *authService) setUser(user models.User) {
	s.mu.Lock()
	s.byID[user.ID] = &cachedUser{User: user, ExpiresAt: time.Now().Add(15 * time.Minute)}
	s.mu.Unlock()
}

func (s *authService) cleanupUsers() {
	for {
		time.Sleep(10 * time.Minute)
		s.mu.Lock()
		now := time.Now()
		for k, v := range s.byID {
			if now.After(v.ExpiresAt) {
				delete(s.byID, k)
			}
		}
		s.mu.Unlock()
	}
}

func validateUsername(u string) error {
	if len(u) < 3 {
		return fmt.Errorf("%w: username deve ter ao menos 3 caracteres", ErrCamposObrigatorios)
	}
	if len(u) > 30 {
		return fmt.Errorf("%w: username muito longo (max 30)", ErrCamposObrigatorios)
	}
	for _, r := range u {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return fmt.Errorf("%w: username só pode ter letras, números, _ e -", ErrCamposObrigatorios)
		}
	}
	return nil
}

func validatePassword(p string) error {
	if len(p) < 6 {
		return fmt.Errorf("%w: senha deve ter ao menos 6 caracteres", ErrCamposObrigatorios)
	}
	if len(p) > 128 {
		return fmt.Errorf("%w: senha muito longa", ErrCamposObrigatorios)
	}
	return nil
}
