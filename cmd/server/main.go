package main

import (
	"log"
	"os"
	"strings"
	"time"

	"srrobot/pkg/broker"
	"srrobot/pkg/cache"
	"srrobot/pkg/database"
	"srrobot/pkg/envelope"
	"srrobot/pkg/handlers"
	"srrobot/pkg/hub"
	"srrobot/pkg/middleware"
	"srrobot/pkg/repository"
	"srrobot/pkg/server"
	"srrobot/pkg/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// canalEventos é o canal pub/sub que liga as instâncias: todo novoDado
// publicado aqui é retransmitido pelo hub de cada instância.
const canalEventos = "srrobot:eventos"

func main() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key-change-in-production"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	db := database.Connect(os.Getenv("DATABASE_URL"))
	defer db.Close()

	// Serverless PG: keep pool small, connections short-lived
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	database.Migrate(db)

	log.Println("[SRR] Connecting to Redis...")
	redis := cache.New(redisURL)
	defer redis.Close()

	eventos := broker.New(redisURL)
	defer eventos.Close()
	log.Println("[SRR] Redis connected")

	wsHub := hub.New()

	// Eventos publicados por qualquer instância chegam aos clientes desta.
	eventos.On("novoDado", func(env envelope.Envelope) {
		wsHub.BroadcastEnvelope(env)
	})
	eventos.Subscribe(canalEventos)

	authService := services.NewAuthService(repository.NewAuthRepository(db), jwtSecret)
	dadosService := services.NewDadosService(
		repository.NewDadosRepository(db),
		repository.NewCounterRepository(db),
		brokerNotifier{b: eventos},
	)
	eventosService := services.NewEventosService(repository.NewEventosRepository(db))

	auth := handlers.NewAuth(authService)
	dados := handlers.NewDados(dadosService, wsHub, redis)
	evts := handlers.NewEventos(eventosService)

	dados.RegisterActions()

	app := server.NewApp("srrobot")
	protegido := middleware.Auth(jwtSecret)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Register)

	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Login)

	authGroup.Get("/me", protegido, auth.Me)

	dadosGroup := app.Group("/dados", protegido)
	dadosGroup.Post("/", dados.Criar)
	dadosGroup.Get("/", dados.Listar)

	eventosGroup := app.Group("/eventos", protegido)
	eventosGroup.Get("/", evts.Listar)
	eventosGroup.Post("/criar", evts.Criar)

	app.Get("/hub/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"clients":       wsHub.ClientCount(),
			"authenticated": wsHub.AuthenticatedCount(),
		})
	})

	app.Use("/ws", parseWSToken(jwtSecret))

	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(int)
		userUUID, _ := c.Locals("user_uuid").(string)
		username, _ := c.Locals("username").(string)
		wsHub.HandleClientConn(c, userID, userUUID, username)
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	addr := "0.0.0.0:" + port
	log.Printf("[SRR] WebSocket: wss://<domain>/ws")
	log.Printf("[SRR] Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("[SRR] Failed to start: %v", err)
	}
}

// brokerNotifier publica eventos de domínio no canal compartilhado;
// fire-and-forget, falha só gera log.
type brokerNotifier struct {
	b *broker.Broker
}

func (n brokerNotifier) Broadcast(action, service string, data interface{}) {
	if err := n.b.Broadcast(canalEventos, action, service, data); err != nil {
		log.Printf("[SRR] broadcast %s: %v", action, err)
	}
}

// parseWSToken aceita conexão anônima mas anexa a identidade quando o
// token (query ?token= ou header bearer) é válido.
func parseWSToken(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenStr := c.Query("token")
		if tokenStr == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr = authHeader[7:]
			}
		}

		userID := 0
		userUUID := ""
		username := ""

		if tokenStr != "" {
			if claims, ok := middleware.ParseToken(tokenStr, jwtSecret); ok {
				userID = claims.UserID
				userUUID = claims.UUID
				username = claims.Username
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_uuid", userUUID)
		c.Locals("username", username)
		return c.Next()
	}
}
