package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tonmarket/internal/delivery/http/dto"
	"tonmarket/internal/middleware"
	"tonmarket/internal/usecase"
)

// AuthHandler exchanges Telegram WebApp initData for a session token
type AuthHandler struct {
	sessions *usecase.SessionService
	botToken string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *usecase.SessionService, botToken string) *AuthHandler {
	return &AuthHandler{sessions: sessions, botToken: botToken}
}

// Login validates initData, opens the user session, and issues a JWT
// POST /api/auth/telegram
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.AuthRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.InitData == "" {
		return BadRequestResponse(c, "init_data is required")
	}

	tgUser, err := middleware.ValidateInitData(req.InitData, h.botToken)
	if err != nil {
		if errors.Is(err, middleware.ErrInitDataExpired) {
			return UnauthorizedResponse(c, "Login session expired, reopen the app")
		}
		return UnauthorizedResponse(c, "Invalid Telegram credentials")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sess, err := h.sessions.Open(ctx, tgUser.ID, tgUser.Username, tgUser.FirstName, tgUser.PhotoURL)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to open session", err)
	}

	token, err := middleware.GenerateJWT(sess.User.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to issue session token", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
		Expires:  time.Now().Add(24 * time.Hour),
	})

	user := sess.Snap.User()
	stats := sess.Snap.Stats()
	return SuccessResponse(c, dto.AuthResponse{
		Token: token,
		User: &dto.UserOutput{
			ID:           user.ID,
			Username:     user.Username,
			FirstName:    user.FirstName,
			AvatarURL:    user.AvatarURL,
			Balance:      user.Balance,
			ReferralCode: user.ReferralCode,
			Verification: sess.Snap.Verification(),
			Bought:       stats.Bought,
			Sold:         stats.Sold,
			TotalVolume:  stats.TotalVolume,
		},
	})
}
