package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notehub/notehub-api/internal/core/ports"
)

type FolderHandler struct {
	assets ports.AssetService
}

func NewFolderHandler(assets ports.AssetService) *FolderHandler {
	return &FolderHandler{assets: assets}
}

type folderRequest struct {
	FolderName string `json:"folderName" validate:"required"`
}

// Create makes a new folder owned by the caller.
//
// @Summary      Create a folder
// @Tags         folders
// @Accept       json
// @Produce      json
// @Param        body  body      folderRequest  true  "Folder name"
// @Success      201   {object}  dataResponse
// @Router       /folders [post]
func (h *FolderHandler) Create(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req folderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	folder, err := h.assets.CreateFolder(c.Request().Context(), userID, req.FolderName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newDataResponse(http.StatusCreated, "folder created", folder))
}

// List returns the caller's own folders.
//
// @Summary      List own folders
// @Tags         folders
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /folders [get]
func (h *FolderHandler) List(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	folders, err := h.assets.ListFolders(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", folders))
}

// Get returns one folder; the caller needs READ access.
//
// @Summary      Get folder details
// @Tags         folders
// @Produce      json
// @Param        folderId  path      string  true  "Folder id"
// @Success      200       {object}  dataResponse
// @Failure      403       {object}  dataResponse
// @Failure      404       {object}  dataResponse
// @Router       /folders/{folderId} [get]
func (h *FolderHandler) Get(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	folder, err := h.assets.GetFolder(c.Request().Context(), userID, c.Param("folderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", folder))
}

// Rename changes the folder name; the caller needs WRITE access.
//
// @Summary      Rename a folder
// @Tags         folders
// @Accept       json
// @Produce      json
// @Param        folderId  path      string         true  "Folder id"
// @Param        body      body      folderRequest  true  "New name"
// @Success      200       {object}  dataResponse
// @Router       /folders/{folderId} [put]
func (h *FolderHandler) Rename(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req folderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	folder, err := h.assets.RenameFolder(c.Request().Context(), userID, c.Param("folderId"), req.FolderName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "folder updated", folder))
}

// Delete removes a folder and all its notes and shares. Owner or MANAGER only.
//
// @Summary      Delete a folder and its contents
// @Tags         folders
// @Produce      json
// @Param        folderId  path      string  true  "Folder id"
// @Success      200       {object}  dataResponse
// @Router       /folders/{folderId} [delete]
func (h *FolderHandler) Delete(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.assets.DeleteFolder(c.Request().Context(), userID, c.Param("folderId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "folder and all its contents deleted", nil))
}

// Notes lists the notes filed under a folder; the caller needs READ access.
//
// @Summary      List notes in a folder
// @Tags         folders
// @Produce      json
// @Param        folderId  path      string  true  "Folder id"
// @Success      200       {object}  dataResponse
// @Router       /folders/{folderId}/notes [get]
func (h *FolderHandler) Notes(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	notes, err := h.assets.ListFolderNotes(c.Request().Context(), userID, c.Param("folderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", notes))
}
