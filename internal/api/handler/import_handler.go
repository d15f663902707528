package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notehub/notehub-api/internal/core/ports"
)

type ImportHandler struct {
	importer ports.UserImportService
}

func NewImportHandler(importer ports.UserImportService) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportUsers bulk-registers accounts from an uploaded CSV file. The file
// travels in the multipart field "file" and must carry a header row naming
// the username, email, password, and role columns.
//
// @Summary      Bulk-import users from a CSV file
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file with username, email, password, role columns"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  dataResponse
// @Router       /admin/import-users [post]
func (h *ImportHandler) ImportUsers(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field 'file' is required")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return echo.NewHTTPError(http.StatusBadRequest, "file must be a .csv")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer file.Close()

	summary, err := h.importer.ImportUsers(c.Request().Context(), file)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("imported %d users, %d succeeded, %d failed",
		summary.Total, summary.Succeeded, summary.Failed)
	return c.JSON(http.StatusOK, newDataResponse(http.StatusOK, msg, summary))
}
