package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

// AdminHandler serves the MANAGER-only administrative surface: user
// listing, the authorization probe, and the audit trail.
type AdminHandler struct {
	users    ports.UserRepository
	resolver ports.AccessResolver
	events   ports.EventRepository
}

func NewAdminHandler(users ports.UserRepository, resolver ports.AccessResolver, events ports.EventRepository) *AdminHandler {
	return &AdminHandler{users: users, resolver: resolver, events: events}
}

// ListUsers returns all users holding a role.
//
// @Summary      List users by role
// @Tags         admin
// @Produce      json
// @Param        role  query     string  true  "MANAGER or MEMBER"
// @Success      200   {object}  dataResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	role, ok := domain.ParseRole(c.QueryParam("role"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be MANAGER or MEMBER")
	}

	users, err := h.users.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}

	public := make([]*domain.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", public))
}

type authzCheckResponse struct {
	Result string `json:"result"` // allow, deny, or not_found
}

// CheckAccess probes the access-control resolver for a principal, resource,
// and level. A missing resource reports not_found, distinct from deny.
//
// @Summary      Probe an authorization decision
// @Tags         admin
// @Produce      json
// @Param        principalId   query     string  true  "Principal user id"
// @Param        resourceType  query     string  true  "folder or note"
// @Param        resourceId    query     string  true  "Resource id"
// @Param        level         query     string  true  "READ or WRITE"
// @Success      200           {object}  authzCheckResponse
// @Router       /admin/authz/check [get]
func (h *AdminHandler) CheckAccess(c echo.Context) error {
	principalID := c.QueryParam("principalId")
	if principalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "principalId is required")
	}
	resourceType, ok := domain.ParseResourceType(c.QueryParam("resourceType"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "resourceType must be folder or note")
	}
	level, ok := domain.ParseAccessLevel(c.QueryParam("level"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "level must be READ or WRITE")
	}

	decision, err := h.resolver.Authorize(c.Request().Context(), principalID, resourceType, c.QueryParam("resourceId"), level)
	if err != nil {
		if err == domain.ErrResourceNotFound {
			return c.JSON(http.StatusOK, authzCheckResponse{Result: "not_found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, authzCheckResponse{Result: decision.String()})
}

// ResourceEvents returns the recent audit trail for one resource.
//
// @Summary      List audit events for a resource
// @Tags         admin
// @Produce      json
// @Param        resourceType  path      string  true  "folder or note"
// @Param        resourceId    path      string  true  "Resource id"
// @Success      200           {object}  dataResponse
// @Router       /admin/events/{resourceType}/{resourceId} [get]
func (h *AdminHandler) ResourceEvents(c echo.Context) error {
	resourceType, ok := domain.ParseResourceType(c.Param("resourceType"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "resourceType must be folder or note")
	}

	events, err := h.events.ListForResource(c.Request().Context(), resourceType, c.Param("resourceId"), 50)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", events))
}
