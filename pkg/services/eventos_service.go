package services

import (
	"fmt"

	"srrobot/pkg/models"
	"srrobot/pkg/repository"
)

type EventosService interface {
	Criar(userID int, req models.CriarEventoRequest) (models.Evento, error)
	Listar(userID int) ([]models.Evento, error)
}

type eventosService struct {
	repo repository.EventosRepository
}

func NewEventosService(repo repository.EventosRepository) EventosService {
	return &eventosService{repo: repo}
}

func (s *eventosService) Criar(userID int, req models.CriarEventoRequest) (models.Evento, error) {
	if req.UserID == 0 || req.Tipo == "" || req.Status == "" || req.Valor == nil {
		return models.Evento{}, ErrDadosInvalidos
	}
	// Só o próprio usuário do token pode criar eventos em seu nome.
	if req.UserID != userID {
		return models.Evento{}, ErrNaoAutorizado
	}

	evento, err := s.repo.Criar(models.Evento{
		UserID:    userID,
		Tipo:      req.Tipo,
		Valor:     *req.Valor,
		Status:    req.Status,
		Descricao: req.Descricao,
	})
	if err != nil {
		return models.Evento{}, fmt.Errorf("salvar evento: %w", err)
	}
	return evento, nil
}

func (s *eventosService) Listar(userID int) ([]models.Evento, error) {
	eventos, err := s.repo.ListarPorUsuario(userID)
	if err != nil {
		return nil, fmt.Errorf("listar eventos: %w", err)
	}
	return eventos, nil
}
