package services

import (
	"fmt"
	"time"

	"srrobot/pkg/models"
	"srrobot/pkg/repository"
)

// SequenciaDados é o nome do contador durável que numera os registros.
const SequenciaDados = "idDados"

type DadosService interface {
	Criar(userID int, req models.CriarDadoRequest) (models.Dado, error)
	Listar(userID int, filtro string) ([]models.Dado, error)
}

type dadosService struct {
	repo     repository.DadosRepository
	counters repository.CounterRepository
	notifier Notifier
}

func NewDadosService(repo repository.DadosRepository, counters repository.CounterRepository, notifier Notifier) DadosService {
	return &dadosService{repo: repo, counters: counters, notifier: notifier}
}

func (s *dadosService) Criar(userID int, req models.CriarDadoRequest) (models.Dado, error) {
	if req.HorasMonitoradas == nil || req.EventosTotais == nil || req.EventosCriticos == nil {
		return models.Dado{}, ErrDadosInvalidos
	}
	if req.Movimento != models.MovimentoSim && req.Movimento != models.MovimentoNao {
		return models.Dado{}, ErrDadosInvalidos
	}
	if *req.HorasMonitoradas < 0 || *req.EventosTotais < 0 || *req.EventosCriticos < 0 {
		return models.Dado{}, ErrDadosInvalidos
	}

	media := 0.0
	if *req.EventosTotais > 0 {
		media = float64(*req.EventosCriticos) / float64(*req.EventosTotais) * 100
	}

	// O id vem do alocador antes do insert; uma falha no insert deixa um
	// buraco na numeração, o que é aceitável — a garantia do alocador é só
	// unicidade e crescimento.
	id, err := s.counters.Proximo(SequenciaDados)
	if err != nil {
		return models.Dado{}, fmt.Errorf("gerar id do registro: %w", err)
	}

	dado, err := s.repo.Criar(models.Dado{
		ID:               id,
		UserID:           userID,
		HorasMonitoradas: *req.HorasMonitoradas,
		EventosTotais:    *req.EventosTotais,
		EventosCriticos:  *req.EventosCriticos,
		Movimento:        req.Movimento,
		Media:            media,
	})
	if err != nil {
		return models.Dado{}, fmt.Errorf("salvar registro: %w", err)
	}

	s.notifier.Broadcast("novoDado", "dados", dado)
	return dado, nil
}

func (s *dadosService) Listar(userID int, filtro string) ([]models.Dado, error) {
	dados, err := s.repo.ListarPorUsuario(userID, periodoInicio(filtro, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("listar registros: %w", err)
	}
	return dados, nil
}

// periodoInicio traduz o filtro de período num limite inferior; a semana
// começa na segunda-feira. Filtro desconhecido ou vazio = sem limite.
func periodoInicio(filtro string, agora time.Time) time.Time {
	switch filtro {
	case "hoje":
		return time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())
	case "semana":
		dia := int(agora.Weekday())
		if dia == 0 {
			dia = 7
		}
		inicio := agora.AddDate(0, 0, -(dia - 1))
		return time.Date(inicio.Year(), inicio.Month(), inicio.Day(), 0, 0, 0, 0, agora.Location())
	case "mes":
		return time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, agora.Location())
	}
	return time.Time{}
}
