package handlers

import (
	"errors"
	"log"

	"srrobot/pkg/models"
	"srrobot/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuth(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// POST /auth/register
func (ah *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido"})
	}

	if err := ah.service.Register(req); err != nil {
		switch {
		case errors.Is(err, services.ErrContaExiste):
			return c.Status(409).JSON(fiber.Map{"erro": err.Error()})
		case errors.Is(err, services.ErrCamposObrigatorios):
			return c.Status(400).JSON(fiber.Map{"erro": err.Error()})
		default:
			log.Printf("[AUTH] register: %v", err)
			return c.Status(500).JSON(fiber.Map{"erro": "Erro ao registrar usuário"})
		}
	}

	return c.Status(201).JSON(fiber.Map{"mensagem": "Usuário registrado"})
}

// POST /auth/login
func (ah *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"erro": "JSON inválido"})
	}

	resp, err := ah.service.Login(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCamposObrigatorios):
			return c.Status(400).JSON(fiber.Map{"erro": err.Error()})
		case errors.Is(err, services.ErrCredenciaisInvalidas):
			// mesma resposta para conta inexistente e senha errada
			return c.Status(401).JSON(fiber.Map{"erro": err.Error()})
		default:
			log.Printf("[AUTH] login: %v", err)
			return c.Status(500).JSON(fiber.Map{"erro": "Erro ao iniciar sessão"})
		}
	}

	return c.JSON(resp)
}

// GET /auth/me
func (ah *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)

	perfil, err := ah.service.Profile(userID)
	if err != nil {
		if errors.Is(err, services.ErrUsuarioNaoEncontrado) {
			return c.Status(404).JSON(fiber.Map{"erro": err.Error()})
		}
		log.Printf("[AUTH] me: %v", err)
		return c.Status(500).JSON(fiber.Map{"erro": "Erro ao obter perfil"})
	}

	return c.JSON(perfil)
}
