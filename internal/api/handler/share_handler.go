package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

type ShareHandler struct {
	shares ports.ShareService
	assets ports.AssetService
}

func NewShareHandler(shares ports.ShareService, assets ports.AssetService) *ShareHandler {
	return &ShareHandler{shares: shares, assets: assets}
}

type grantRequest struct {
	UserID       string `json:"userId" validate:"required"`
	ResourceType string `json:"resourceType" validate:"required,oneof=folder note"`
	ResourceID   string `json:"resourceId" validate:"required"`
	AccessLevel  string `json:"accessLevel" validate:"required,oneof=READ WRITE"`
}

type reviseRequest struct {
	AccessLevel string `json:"accessLevel" validate:"required,oneof=READ WRITE"`
}

// Grant shares a resource with another user, replacing any existing grant
// for the same pair.
//
// @Summary      Grant access to a resource
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        body  body      grantRequest  true  "Grant details"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  dataResponse
// @Router       /shares [post]
func (h *ShareHandler) Grant(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	share, err := h.shares.Grant(c.Request().Context(), userID, req.UserID,
		domain.ResourceType(req.ResourceType), req.ResourceID, domain.AccessLevel(req.AccessLevel))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "access granted", share))
}

// Revise changes the level of an existing share.
//
// @Summary      Change a share's access level
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        shareId  path      string         true  "Share id"
// @Param        body     body      reviseRequest  true  "New level"
// @Success      200      {object}  dataResponse
// @Router       /shares/{shareId} [put]
func (h *ShareHandler) Revise(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req reviseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	share, err := h.shares.Revise(c.Request().Context(), userID, c.Param("shareId"), domain.AccessLevel(req.AccessLevel))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "access level updated", share))
}

// Revoke removes a share. Revoking an already-removed share succeeds.
//
// @Summary      Revoke a share
// @Tags         shares
// @Produce      json
// @Param        shareId  path      string  true  "Share id"
// @Success      200      {object}  dataResponse
// @Router       /shares/{shareId} [delete]
func (h *ShareHandler) Revoke(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.shares.Revoke(c.Request().Context(), userID, c.Param("shareId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "access revoked", nil))
}

// ListForResource returns the grants on one resource.
//
// @Summary      List shares on a resource
// @Tags         shares
// @Produce      json
// @Param        resourceType  path      string  true  "folder or note"
// @Param        resourceId    path      string  true  "Resource id"
// @Success      200           {object}  dataResponse
// @Router       /shares/resource/{resourceType}/{resourceId} [get]
func (h *ShareHandler) ListForResource(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	resourceType, ok := domain.ParseResourceType(c.Param("resourceType"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "resourceType must be folder or note")
	}

	shares, err := h.shares.ListForResource(c.Request().Context(), userID, resourceType, c.Param("resourceId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", shares))
}

// ListForMe returns everything shared with the caller.
//
// @Summary      List resources shared with me
// @Tags         shares
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /shares/me [get]
func (h *ShareHandler) ListForMe(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	shares, err := h.shares.ListForGrantee(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", shares))
}

// AssetsForMe returns the folders and notes behind the caller's grants,
// resolved to the actual records rather than the raw grant rows.
//
// @Summary      List shared folders and notes, resolved
// @Tags         shares
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /shares/me/assets [get]
func (h *ShareHandler) AssetsForMe(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	assets, err := h.assets.ListSharedWith(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", assets))
}
