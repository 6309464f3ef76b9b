package http

import (
	"errors"

	"github.com/labstack/echo/v4"

	"tonmarket/internal/delivery/http/dto"
	"tonmarket/internal/domain"
	"tonmarket/internal/middleware"
	"tonmarket/internal/navigation"
	"tonmarket/internal/usecase"
)

// UIHandler exposes the navigation shell so the thin mini-app client can
// stay a dumb renderer of server-held state
type UIHandler struct {
	sessions *usecase.SessionService
}

// NewUIHandler creates a new UIHandler
func NewUIHandler(sessions *usecase.SessionService) *UIHandler {
	return &UIHandler{sessions: sessions}
}

func (h *UIHandler) session(c echo.Context) (*usecase.Session, error) {
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

func uiState(sess *usecase.Session) dto.UIStateOutput {
	out := dto.UIStateOutput{
		View:   string(sess.Shell.View()),
		Sheets: []string{},
	}
	if sel := sess.Shell.Selected(); sel != nil {
		out.Selected = sel.Code
	}
	for _, sh := range sess.Shell.OpenSheets() {
		out.Sheets = append(out.Sheets, string(sh))
	}
	return out
}

// GetState returns the current shell state
// GET /api/ui/state
func (h *UIHandler) GetState(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}
	return SuccessResponse(c, uiState(sess))
}

// Navigate switches to a top-level tab
// POST /api/ui/navigate
func (h *UIHandler) Navigate(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req struct {
		View string `json:"view"`
	}
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	switch navigation.View(req.View) {
	case navigation.ViewMarket, navigation.ViewOwned, navigation.ViewSeason, navigation.ViewProfile:
		sess.Shell.Go(navigation.View(req.View))
	default:
		return BadRequestResponse(c, "Unknown view")
	}
	return SuccessResponse(c, uiState(sess))
}

// Select opens the detail view for a catalog entry or an owned copy
// POST /api/ui/select
func (h *UIHandler) Select(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req struct {
		Code  string `json:"code"`
		Owned bool   `json:"owned"`
	}
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	var item domain.SelectedItem
	found := false
	if req.Owned {
		for _, n := range sess.Snap.Owned() {
			if n.Code == req.Code {
				item = domain.SelectedFromOwned(n)
				found = true
				break
			}
		}
	} else {
		for _, entry := range sess.Snap.Catalog() {
			if entry.Code == req.Code {
				item = domain.SelectedFromCatalog(entry)
				found = true
				break
			}
		}
	}
	if !found {
		return NotFoundResponse(c, "Unknown item")
	}

	sess.Shell.Select(item)
	return SuccessResponse(c, uiState(sess))
}

// OpenListing moves from an owned item's detail to the listing form
// POST /api/ui/listing
func (h *UIHandler) OpenListing(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}
	sess.Shell.OpenCreateListing()
	return SuccessResponse(c, uiState(sess))
}

// Back leaves the detail or listing view
// POST /api/ui/back
func (h *UIHandler) Back(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}
	sess.Shell.Back()
	return SuccessResponse(c, uiState(sess))
}

// ToggleSheet opens or closes a bottom sheet
// POST /api/ui/sheet
func (h *UIHandler) ToggleSheet(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req struct {
		Sheet string `json:"sheet"`
		Open  bool   `json:"open"`
	}
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	switch navigation.Sheet(req.Sheet) {
	case navigation.SheetWallet, navigation.SheetSettings, navigation.SheetHistory, navigation.SheetDeposit, navigation.SheetWithdraw:
	default:
		return BadRequestResponse(c, "Unknown sheet")
	}

	if req.Open {
		sess.Shell.OpenSheet(navigation.Sheet(req.Sheet))
	} else {
		sess.Shell.CloseSheet(navigation.Sheet(req.Sheet))
	}
	return SuccessResponse(c, uiState(sess))
}
