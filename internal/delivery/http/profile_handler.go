package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"tonmarket/internal/delivery/http/dto"
	"tonmarket/internal/middleware"
	"tonmarket/internal/service"
	"tonmarket/internal/usecase"
)

// ProfileHandler handles profile and season endpoints
type ProfileHandler struct {
	sessions *usecase.SessionService
	season   *service.SeasonService
	settings *service.SettingsService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(sessions *usecase.SessionService, season *service.SeasonService, settings *service.SettingsService) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, season: season, settings: settings}
}

func (h *ProfileHandler) session(c echo.Context) (*usecase.Session, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return nil, err
	}
	sess, ok := h.sessions.Get(userID)
	if !ok {
		return nil, errors.New("no open session, login first")
	}
	return sess, nil
}

// GetMe returns current user details
// GET /api/profile/me
func (h *ProfileHandler) GetMe(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	user := sess.Snap.User()
	stats := sess.Snap.Stats()
	return SuccessResponse(c, dto.UserOutput{
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
	})
}

// GetSupport returns the support contact shown in the settings sheet
// GET /api/profile/support
func (h *ProfileHandler) GetSupport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	username, err := h.settings.SupportUsername(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load support contact", err)
	}
	return SuccessResponse(c, map[string]string{"support_username": username})
}

// GetLeaderboard returns the season ranking by traded volume
// GET /api/season/leaderboard
func (h *ProfileHandler) GetLeaderboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	entries, err := h.season.Leaderboard(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load leaderboard", err)
	}
	out := make([]dto.LeaderboardRowOutput, len(entries))
	for i, e := range entries {
		out[i] = dto.LeaderboardRowOutput{
			Rank:     i + 1,
			UserID:   e.UserID,
			Username: e.Username,
			Volume:   e.Volume,
			Trades:   e.Trades,
		}
	}
	return SuccessResponse(c, out)
}

// JoinSeason checks the balance gate for season participation
// POST /api/season/join
func (h *ProfileHandler) JoinSeason(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.season.CheckJoin(ctx, sess.Snap.Balance()); err != nil {
		var tooLow service.ErrBalanceTooLow
		if errors.As(err, &tooLow) {
			return UnprocessableResponse(c, err.Error())
		}
		return InternalServerErrorResponse(c, "Failed to check season eligibility", err)
	}
	return SuccessResponse(c, map[string]interface{}{"joined": true})
}
