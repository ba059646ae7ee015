package handlers

import (
	"errors"
	"log"

	"srrobot/pkg/models"
	"srrobot/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type EventosHandler struct {
	service services.EventosService
}

func NewEventos(service services.EventosService) *EventosHandler {
	return &EventosHandler{service: service}
}

// GET /eventos
func (eh *EventosHandler) Listar(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)

	eventos, err := eh.service.Listar(userID)
	if err != nil {
		log.Printf("[EVENTOS] listar: %v", err)
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao carregar eventos"})
	}

	return c.JSON(fiber.Map{"eventos": eventos})
}

// POST /eventos/criar
func (eh *EventosHandler) Criar(c *fiber.Ctx) error {
	var req models.CriarEventoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido"})
	}

	userID, _ := c.Locals("user_id").(int)

	evento, err := eh.service.Criar(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDadosInvalidos):
			return c.Status(400).JSON(fiber.Map{"erro": "Campos obrigatórios ausentes"})
		case errors.Is(err, services.ErrNaoAutorizado):
			return c.Status(403).JSON(fiber.Map{"erro": "Não autorizado"})
		default:
			log.Printf("[EVENTOS] criar: %v", err)
			return c.Status(500).JSON(fiber.Map{"erro": "Erro ao salvar evento"})
		}
	}

	return c.Status(201).JSON(evento)
}
