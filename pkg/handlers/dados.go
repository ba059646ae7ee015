package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"srrobot/pkg/envelope"
	"srrobot/pkg/hub"
	"srrobot/pkg/models"
	"srrobot/pkg/services"

	"github.com/gofiber/fiber/v2"
)

// Cache é o recorte de *cache.Redis que o handler usa.
type Cache interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration)
	DelPattern(pattern string)
}

// Replier é o recorte de *hub.Hub que o handler usa.
type Replier interface {
	On(action string, fn hub.ActionHandler)
	Reply(original envelope.Envelope, data interface{})
	ReplyError(original envelope.Envelope, code int, msg string)
}

type DadosHandler struct {
	service services.DadosService
	hub     Replier
	redis   Cache
}

func NewDados(service services.DadosService, h Replier, r Cache) *DadosHandler {
	return &DadosHandler{service: service, hub: h, redis: r}
}

// RegisterActions liga o envio de dados pelo websocket, o caminho que o
// robô usa em campo.
func (dh *DadosHandler) RegisterActions() {
	dh.hub.On("dados.enviar", dh.enviarViaWS)
}

// POST /dados
func (dh *DadosHandler) Criar(c *fiber.Ctx) error {
	var req models.CriarDadoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido"})
	}

	userID, _ := c.Locals("user_id").(int)

	dado, err := dh.service.Criar(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrDadosInvalidos) {
			return c.Status(400).JSON(fiber.Map{"erro": "Campos obrigatórios ausentes ou movimento inválido"})
		}
		log.Printf("[DADOS] criar: %v", err)
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao salvar dados"})
	}

	dh.redis.DelPattern(fmt.Sprintf("dados:list:%d:*", userID))
	return c.Status(201).JSON(dado)
}

// GET /dados?filtro=hoje|semana|mes
func (dh *DadosHandler) Listar(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)
	filtro := c.Query("filtro")

	cacheKey := fmt.Sprintf("dados:list:%d:%s", userID, filtro)
	var cached []models.Dado
	if dh.redis.Get(cacheKey, &cached) {
		return c.JSON(cached)
	}

	dados, err := dh.service.Listar(userID, filtro)
	if err != nil {
		log.Printf("[DADOS] listar: %v", err)
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao obter dados"})
	}

	dh.redis.Set(cacheKey, dados, 30*time.Second)
	return c.JSON(dados)
}

func (dh *DadosHandler) enviarViaWS(env envelope.Envelope) {
	if env.UserID == 0 {
		dh.hub.ReplyError(env, 401, "Faça login para enviar dados")
		return
	}

	req, err := envelope.ParseData[models.CriarDadoRequest](env)
	if err != nil {
		dh.hub.ReplyError(env, 400, "JSON inválido")
		return
	}

	dado, err := dh.service.Criar(env.UserID, req)
	if err != nil {
		if errors.Is(err, services.ErrDadosInvalidos) {
			dh.hub.ReplyError(env, 400, "Campos obrigatórios ausentes ou movimento inválido")
			return
		}
		log.Printf("[DADOS] enviar ws: %v", err)
		dh.hub.ReplyError(env, 500, "Erro ao salvar dados")
		return
	}

	dh.redis.DelPattern(fmt.Sprintf("dados:list:%d:*", env.UserID))
	dh.hub.Reply(env, dado)
}
