package web

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jesterlabs/go-jester/pkg/robot"
)

// defaultTalkDuration is used when a talk trigger gives no duration.
const defaultTalkDuration = 2 * time.Second

// handleJoke returns one random joke.
func (s *Server) handleJoke(c *fiber.Ctx) error {
	j := s.book.Random()
	return c.JSON(fiber.Map{
		"setup":     j.Setup,
		"punchline": j.Punchline,
	})
}

// handleStatus reports actuator and engine availability.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	st := s.bot.Status()
	return c.JSON(fiber.Map{
		"status": "ok",
		"robot":  st,
		"jokes":  s.book.Len(),
	})
}

// SayRequest asks the robot to narrate arbitrary text.
type SayRequest struct {
	Text string `json:"text"`
}

// handleSay narrates text with the talk animation. The work runs in the
// background; overlapping requests serialize inside the dispatcher.
func (s *Server) handleSay(c *fiber.Ctx) error {
	var req SayRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "text is required",
		})
	}

	go s.bot.Say(req.Text)

	return c.JSON(fiber.Map{
		"status":   "ok",
		"speaking": s.bot.Status().Engine != "none",
	})
}

// TalkRequest triggers the talk animation.
type TalkRequest struct {
	DurationMs int `json:"duration_ms"`
}

// handleTalk runs the talk animation without narration.
func (s *Server) handleTalk(c *fiber.Ctx) error {
	var req TalkRequest
	c.BodyParser(&req) // optional body

	duration := defaultTalkDuration
	if req.DurationMs > 0 {
		duration = time.Duration(req.DurationMs) * time.Millisecond
	}

	go s.bot.Talk(duration)

	return s.actuatorResponse(c)
}

// LaughRequest triggers the laugh animation.
type LaughRequest struct {
	Narrate bool `json:"narrate"`
}

// handleLaugh runs the laugh animation, optionally narrated.
func (s *Server) handleLaugh(c *fiber.Ctx) error {
	var req LaughRequest
	c.BodyParser(&req) // optional body

	go s.bot.Laugh(req.Narrate)

	return s.actuatorResponse(c)
}

// handleRelease stops driving the servo.
func (s *Server) handleRelease(c *fiber.Ctx) error {
	s.bot.Servo().Release()
	return s.actuatorResponse(c)
}

// AngleRequest commands a raw servo angle.
type AngleRequest struct {
	Angle int `json:"angle"`
}

// handleAngle moves the servo to an angle. Out-of-range values clamp.
func (s *Server) handleAngle(c *fiber.Ctx) error {
	var req AngleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "angle is required",
		})
	}

	s.bot.Servo().SetAngle(req.Angle)

	st := s.bot.Status()
	resp := fiber.Map{
		"status":          "ok",
		"servo_available": st.ServoAvailable,
	}
	if st.LastAngle != nil {
		resp["angle"] = *st.LastAngle
	}
	return c.JSON(resp)
}

// actuatorResponse is the small status record the trigger endpoints return.
func (s *Server) actuatorResponse(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "ok",
		"servo_available": s.bot.Status().ServoAvailable,
	})
}

// jsonStatus renders the robot status for the websocket greeting.
func jsonStatus(bot *robot.Robot) ([]byte, error) {
	return json.Marshal(bot.Status())
}
