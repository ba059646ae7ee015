package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"srrobot/pkg/envelope"
	"srrobot/pkg/hub"
	"srrobot/pkg/models"
	"srrobot/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type fakeDadosService struct {
	mu     sync.Mutex
	criado []models.Dado
	erro   error
	nextID int64
}

func (s *fakeDadosService) Criar(userID int, req models.CriarDadoRequest) (models.Dado, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.erro != nil {
		return models.Dado{}, s.erro
	}
	if req.HorasMonitoradas == nil || req.EventosTotais == nil || req.EventosCriticos == nil ||
		(req.Movimento != models.MovimentoSim && req.Movimento != models.MovimentoNao) {
		return models.Dado{}, services.ErrDadosInvalidos
	}
	s.nextID++
	dado := models.Dado{
		ID:               s.nextID,
		UserID:           userID,
		HorasMonitoradas: *req.HorasMonitoradas,
		EventosTotais:    *req.EventosTotais,
		EventosCriticos:  *req.EventosCriticos,
		Movimento:        req.Movimento,
		CreatedAt:        time.Now(),
	}
	s.criado = append(s.criado, dado)
	return dado, nil
}

func (s *fakeDadosService) Listar(userID int, filtro string) ([]models.Dado, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.erro != nil {
		return nil, s.erro
	}
	out := []models.Dado{}
	for _, d := range s.criado {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeCache guarda JSON em memória e registra os padrões invalidados.
type fakeCache struct {
	mu         sync.Mutex
	entradas   map[string][]byte
	invalidado []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entradas: map[string][]byte{}}
}

func (c *fakeCache) Get(key string, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entradas[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *fakeCache) Set(key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.entradas[key] = raw
	c.mu.Unlock()
}

func (c *fakeCache) DelPattern(pattern string) {
	c.mu.Lock()
	c.invalidado = append(c.invalidado, pattern)
	// o fake descarta tudo; granularidade de padrão não importa aqui
	c.entradas = map[string][]byte{}
	c.mu.Unlock()
}

// fakeReplier registra replies e erros entregues pelo hub.
type fakeReplier struct {
	mu       sync.Mutex
	handlers map[string]hub.ActionHandler
	replies  []envelope.Envelope
	erros    []envelope.ErrorPayload
}

func newFakeReplier() *fakeReplier {
	return &fakeReplier{handlers: map[string]hub.ActionHandler{}}
}

func (r *fakeReplier) On(action string, fn hub.ActionHandler) {
	r.handlers[action] = fn
}

func (r *fakeReplier) Reply(original envelope.Envelope, data interface{}) {
	env, err := envelope.NewReply(original, data)
	if err != nil {
		return
	}
	r.mu.Lock()
	r.replies = append(r.replies, env)
	r.mu.Unlock()
}

func (r *fakeReplier) ReplyError(original envelope.Envelope, code int, msg string) {
	r.mu.Lock()
	r.erros = append(r.erros, envelope.ErrorPayload{Code: code, Message: msg})
	r.mu.Unlock()
}

func dadoRaw(t *testing.T) json.RawMessage {
	t.Helper()
	horas := 8.5
	totais := 20
	criticos := 5
	raw, err := json.Marshal(models.CriarDadoRequest{
		HorasMonitoradas: &horas,
		EventosTotais:    &totais,
		EventosCriticos:  &criticos,
		Movimento:        models.MovimentoSim,
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestEnviarViaWSAnonimoRecebe401(t *testing.T) {
	t.Parallel()

	svc := &fakeDadosService{}
	replier := newFakeReplier()
	dh := NewDados(svc, replier, newFakeCache())
	dh.RegisterActions()

	fn, ok := replier.handlers["dados.enviar"]
	if !ok {
		t.Fatal("ação dados.enviar não registrada")
	}

	env := envelope.New("dados.enviar", "dados")
	env.ReplyTo = env.ID
	env.Data = dadoRaw(t)
	// UserID zero = conexão sem token válido
	fn(env)

	if len(replier.erros) != 1 || replier.erros[0].Code != 401 {
		t.Fatalf("erros = %+v, quer um erro 401", replier.erros)
	}
	if len(svc.criado) != 0 {
		t.Fatal("conexão anônima não pode criar registro")
	}
}

func TestEnviarViaWSRespondeEInvalida(t *testing.T) {
	t.Parallel()

	svc := &fakeDadosService{}
	replier := newFakeReplier()
	cacheFake := newFakeCache()
	dh := NewDados(svc, replier, cacheFake)
	dh.RegisterActions()

	env := envelope.New("dados.enviar", "dados")
	env.UserID = 7
	env.ReplyTo = env.ID
	env.Data = dadoRaw(t)
	replier.handlers["dados.enviar"](env)

	if len(replier.replies) != 1 {
		t.Fatalf("replies = %d, quer 1", len(replier.replies))
	}
	reply := replier.replies[0]
	if reply.Action != "dados.enviar.result" || reply.ReplyTo != env.ID {
		t.Fatalf("reply inesperado: action=%q reply_to=%q", reply.Action, reply.ReplyTo)
	}
	if len(cacheFake.invalidado) != 1 || cacheFake.invalidado[0] != "dados:list:7:*" {
		t.Fatalf("invalidação = %v, quer [dados:list:7:*]", cacheFake.invalidado)
	}
}

func TestEnviarViaWSDadoInvalido(t *testing.T) {
	t.Parallel()

	svc := &fakeDadosService{}
	replier := newFakeReplier()
	dh := NewDados(svc, replier, newFakeCache())
	dh.RegisterActions()

	env := envelope.New("dados.enviar", "dados")
	env.UserID = 7
	env.ReplyTo = env.ID
	env.Data = json.RawMessage(`{"movimento":"talvez"}`)
	replier.handlers["dados.enviar"](env)

	if len(replier.erros) != 1 || replier.erros[0].Code != 400 {
		t.Fatalf("erros = %+v, quer um erro 400", replier.erros)
	}
}

func appDados(svc services.DadosService, c Cache) *fiber.App {
	dh := NewDados(svc, newFakeReplier(), c)

	app := fiber.New()
	// injeta a identidade que o guardião de token colocaria
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", 7)
		return ctx.Next()
	})
	grupo := app.Group("/dados")
	grupo.Post("/", dh.Criar)
	grupo.Get("/", dh.Listar)
	return app
}

func TestCriarInvalidaCacheDoUsuario(t *testing.T) {
	t.Parallel()

	cacheFake := newFakeCache()
	app := appDados(&fakeDadosService{}, cacheFake)

	req := httptest.NewRequest(http.MethodPost, "/dados/", bytes.NewReader(dadoRaw(t)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, quer 201", resp.StatusCode)
	}
	if len(cacheFake.invalidado) != 1 || cacheFake.invalidado[0] != "dados:list:7:*" {
		t.Fatalf("invalidação = %v, quer [dados:list:7:*]", cacheFake.invalidado)
	}
}

func TestListarUsaCache(t *testing.T) {
	t.Parallel()

	svc := &fakeDadosService{}
	cacheFake := newFakeCache()
	app := appDados(svc, cacheFake)

	// miss: busca no serviço e semeia o cache
	req := httptest.NewRequest(http.MethodGet, "/dados/?filtro=hoje", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, quer 200", resp.StatusCode)
	}
	if _, ok := cacheFake.entradas["dados:list:7:hoje"]; !ok {
		t.Fatalf("cache não populado: %v", cacheFake.entradas)
	}

	// hit: o serviço passa a falhar mas a resposta sai do cache
	svc.mu.Lock()
	svc.erro = services.ErrDadosInvalidos
	svc.mu.Unlock()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/dados/?filtro=hoje", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("hit de cache: status = %d, quer 200", resp.StatusCode)
	}
}
