// Package web serves the joke robot's dashboard and its local HTTP API.
package web

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/jesterlabs/go-jester/internal/log"
	"github.com/jesterlabs/go-jester/pkg/hub"
	"github.com/jesterlabs/go-jester/pkg/jokes"
	"github.com/jesterlabs/go-jester/pkg/robot"
)

//go:embed index.html
var indexHTML []byte

// Server is the web front end: a decorative joke page plus small JSON
// endpoints that poke the actuator and the narration engine.
type Server struct {
	app  *fiber.App
	port string

	bot  *robot.Robot
	book *jokes.Book

	statusHub *hub.Hub
}

// NewServer wires the routes and hooks the robot's state changes into
// the status websocket.
func NewServer(port string, bot *robot.Robot, book *jokes.Book) *Server {
	s := &Server{
		port:      port,
		bot:       bot,
		book:      book,
		statusHub: hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Jester",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(indexHTML)
	})

	api := app.Group("/api")
	api.Get("/joke", s.handleJoke)
	api.Get("/status", s.handleStatus)
	api.Post("/say", s.handleSay)
	api.Post("/talk", s.handleTalk)
	api.Post("/laugh", s.handleLaugh)
	api.Post("/release", s.handleRelease)
	api.Post("/angle", s.handleAngle)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	// Push every robot state change to connected dashboards.
	bot.OnChange = func(st robot.Status) {
		s.statusHub.BroadcastJSON(st)
	}

	s.app = app
	return s
}

// Start runs the status hub and blocks serving HTTP.
func (s *Server) Start() error {
	go s.statusHub.Run()
	log.Info("web surface listening", "addr", "http://localhost:"+s.port)
	return s.app.Listen(":" + s.port)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// handleStatusWS registers a dashboard client, sends it the current
// snapshot, then pumps broadcasts until it disconnects.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)

	if data, err := jsonStatus(s.bot); err == nil {
		c.WriteMessage(websocket.TextMessage, data)
	}

	client.Run()
}
