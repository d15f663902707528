package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notehub/notehub-api/internal/core/ports"
)

type NoteHandler struct {
	assets ports.AssetService
}

func NewNoteHandler(assets ports.AssetService) *NoteHandler {
	return &NoteHandler{assets: assets}
}

type createNoteRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	FolderID string `json:"folderId"`
}

type updateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Create makes a new note. Filing into a folder requires WRITE on it.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body      createNoteRequest  true  "Note fields"
// @Success      201   {object}  dataResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.assets.CreateNote(c.Request().Context(), userID, ports.CreateNoteInput{
		Title:    req.Title,
		Content:  req.Content,
		FolderID: req.FolderID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newDataResponse(http.StatusCreated, "note created", note))
}

// List returns the caller's own notes.
//
// @Summary      List own notes
// @Tags         notes
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /notes [get]
func (h *NoteHandler) List(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	notes, err := h.assets.ListNotes(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", notes))
}

// Get returns one note; the caller needs READ access.
//
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Param        noteId  path      string  true  "Note id"
// @Success      200     {object}  dataResponse
// @Failure      403     {object}  dataResponse
// @Failure      404     {object}  dataResponse
// @Router       /notes/{noteId} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	note, err := h.assets.GetNote(c.Request().Context(), userID, c.Param("noteId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "", note))
}

// Update rewrites title and content; the caller needs WRITE access.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        noteId  path      string             true  "Note id"
// @Param        body    body      updateNoteRequest  true  "New fields"
// @Success      200     {object}  dataResponse
// @Router       /notes/{noteId} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.assets.UpdateNote(c.Request().Context(), userID, c.Param("noteId"), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "note updated", note))
}

// Delete removes a note and its shares. Owner or MANAGER only.
//
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Param        noteId  path      string  true  "Note id"
// @Success      200     {object}  dataResponse
// @Router       /notes/{noteId} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.assets.DeleteNote(c.Request().Context(), userID, c.Param("noteId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, "note deleted", nil))
}
