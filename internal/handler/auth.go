package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/middleware"
	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/repository"
	"github.com/iliyamo/party-rental/internal/utils"
)

// AuthSettings are the token parameters taken from config.
type AuthSettings struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
}

// AuthHandler serves operator sessions.
type AuthHandler struct {
	Settings  AuthSettings
	Operators Operators
	Tokens    Tokens
}

func NewAuthHandler(s AuthSettings, ops Operators, tokens Tokens) *AuthHandler {
	return &AuthHandler{Settings: s, Operators: ops, Tokens: tokens}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type operatorPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type authResp struct {
	Operator operatorPart `json:"operator"`
	Access   tokenPart    `json:"access"`
	Refresh  tokenPart    `json:"refresh"`
}

func toOperatorPart(o model.Operator) operatorPart {
	return operatorPart{ID: o.ID, Email: o.Email, Name: o.Name, Role: o.Role}
}

// issue signs an access token and stores a fresh refresh token.
func (h *AuthHandler) issue(c echo.Context, op model.Operator) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	access, err := utils.NewAccessToken(h.Settings.JWTSecret, op.ID, op.Name, op.Role, h.Settings.AccessTTLMin)
	if err != nil {
		return fail(c, err)
	}
	refresh, err := utils.NewRefreshToken(h.Settings.RefreshTTLDays)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Tokens.StoreRefresh(ctx, op.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		Operator: toOperatorPart(op),
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh:  tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Login checks operator credentials and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	op, err := h.Operators.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return fail(c, err)
	}
	if !op.IsActive || !utils.VerifyPassword(op.PasswordHash, req.Password) {
		logger.Warn("operator login rejected", "email", req.Email, "active", op.IsActive)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	logger.Info("operator logged in", "operator_id", op.ID)
	return h.issue(c, op)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))
	ctx, cancel := dbCtx(c)
	defer cancel()

	operatorID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	op, err := h.Operators.GetByID(ctx, operatorID)
	if err != nil || !op.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return fail(c, err)
	}
	return h.issue(c, op)
}

// Logout revokes the presented refresh token, or every token of the
// operator when only a valid bearer token is sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)
	ctx, cancel := dbCtx(c)
	defer cancel()

	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		claims, err := utils.ParseAccessToken(h.Settings.JWTSecret, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		id, _ := claims.OperatorID()
		if err := h.Tokens.RevokeAllForOperator(ctx, id); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	return badRequest(c, "provide Authorization header or refresh_token")
}

// Me returns the authenticated operator.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.OperatorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	op, err := h.Operators.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toOperatorPart(op))
}
