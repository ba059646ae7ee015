package services

import (
	"sync"
	"testing"
	"time"

	"srrobot/pkg/models"

	"github.com/stretchr/testify/require"
)

type fakeEventosRepo struct {
	mu      sync.Mutex
	nextID  int
	eventos []models.Evento
}

func (r *fakeEventosRepo) Criar(evento models.Evento) (models.Evento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	evento.ID = r.nextID
	evento.CreatedAt = time.Now()
	r.eventos = append(r.eventos, evento)
	return evento, nil
}

func (r *fakeEventosRepo) ListarPorUsuario(userID int) ([]models.Evento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Evento{}
	for _, e := range r.eventos {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func eventoValido(userID int) models.CriarEventoRequest {
	return models.CriarEventoRequest{
		UserID: userID,
		Tipo:   "alerta",
		Valor:  ptrF(3),
		Status: "ativo",
	}
}

func TestCriarEvento(t *testing.T) {
	t.Parallel()

	svc := NewEventosService(&fakeEventosRepo{})

	evento, err := svc.Criar(4, eventoValido(4))
	require.NoError(t, err)
	require.Equal(t, 4, evento.UserID)
	require.NotZero(t, evento.ID)

	// só o dono do token cria eventos em seu nome
	_, err = svc.Criar(4, eventoValido(5))
	require.ErrorIs(t, err, ErrNaoAutorizado)

	req := eventoValido(4)
	req.Tipo = ""
	_, err = svc.Criar(4, req)
	require.ErrorIs(t, err, ErrDadosInvalidos)

	req = eventoValido(4)
	req.Valor = nil
	_, err = svc.Criar(4, req)
	require.ErrorIs(t, err, ErrDadosInvalidos)
}

func TestListarEventosPorUsuario(t *testing.T) {
	t.Parallel()

	svc := NewEventosService(&fakeEventosRepo{})
	_, err := svc.Criar(1, eventoValido(1))
	require.NoError(t, err)
	_, err = svc.Criar(2, eventoValido(2))
	require.NoError(t, err)

	eventos, err := svc.Listar(1)
	require.NoError(t, err)
	require.Len(t, eventos, 1)
	require.Equal(t, 1, eventos[0].UserID)
}
