package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/internal/repositories"
	"github.com/cardroid/ruleta/internal/services"
	"github.com/gin-gonic/gin"
)

// PrizeHandler handles the promotion endpoints of the stub API
type PrizeHandler struct {
	game *services.GameService
}

// NewPrizeHandler creates a new PrizeHandler
func NewPrizeHandler(game *services.GameService) *PrizeHandler {
	return &PrizeHandler{game: game}
}

// SpinConfig handles GET /api/spin-config
func (h *PrizeHandler) SpinConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.WheelConfig())
}

// Register handles POST /api/register
func (h *PrizeHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Datos de registro incompletos"})
		return
	}
	req.Plate = services.NormalizePlate(req.Plate)

	player, created, err := h.game.RegisterPlayer(c.Request.Context(), req)
	if err != nil {
		log.Printf("[PrizeHandler] Register %s failed: %v", req.Plate, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "No se pudo registrar"})
		return
	}

	message := "Bienvenido de nuevo"
	status := http.StatusOK
	if created {
		message = "Registro exitoso"
		status = http.StatusCreated
	}
	spins := player.SpinsAvailable
	c.JSON(status, models.RegisterResponse{
		Message: message,
		User: &models.RegisteredUser{
			Plate:          player.Plate,
			Email:          player.Email,
			Phone:          player.Phone,
			SpinsAvailable: &spins,
			Prizes:         player.Prizes,
		},
	})
}

// Spin handles POST /api/spin
func (h *PrizeHandler) Spin(c *gin.Context) {
	var req models.PlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Placa requerida"})
		return
	}

	res, err := h.game.SpinForPlayer(c.Request.Context(), services.NormalizePlate(req.Plate))
	if err != nil {
		h.writeError(c, err)
		return
	}

	spins := res.Player.SpinsAvailable
	angle := res.StopAngle
	c.JSON(http.StatusOK, models.SpinResponse{
		Prize:          &models.SpinPrize{ID: res.Prize.ID, Text: res.Prize.Text},
		StopAngle:      &angle,
		SpinsAvailable: &spins,
		Prizes:         res.Player.Prizes,
	})
}

// Share handles POST /api/share
func (h *PrizeHandler) Share(c *gin.Context) {
	var req models.PlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Placa requerida"})
		return
	}

	player, err := h.game.ShareForPlayer(c.Request.Context(), services.NormalizePlate(req.Plate))
	if err != nil {
		h.writeError(c, err)
		return
	}

	spins := player.SpinsAvailable
	c.JSON(http.StatusOK, models.ShareResponse{
		Message:        "¡Gracias por compartir! Tienes giros adicionales",
		SpinsAvailable: &spins,
	})
}

func (h *PrizeHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Usuario no registrado"})
	case errors.Is(err, services.ErrPlayerOutOfSpins):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "No tienes giros disponibles"})
	case errors.Is(err, services.ErrAlreadyShared):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Ya recibiste los giros por compartir"})
	default:
		log.Printf("[PrizeHandler] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Error interno"})
	}
}
