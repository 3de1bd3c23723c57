package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

// maxUploadBytes caps the spreadsheet size read into memory.
const maxUploadBytes = 16 << 20

type CustomerHandler struct {
	distService ports.DistributionService
}

func NewCustomerHandler(distService ports.DistributionService) *CustomerHandler {
	return &CustomerHandler{distService: distService}
}

// uploadEntry is the per-agent distribution shape in the upload response.
type uploadEntry struct {
	AgentName      string            `json:"agentName"`
	Email          string            `json:"email"`
	CustomersCount int               `json:"customersCount"`
	Customers      []domain.Customer `json:"customers"`
}

// Upload accepts a spreadsheet and distributes its rows across active agents.
//
// @Summary      Upload and distribute customers
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV, XLSX or XLS file"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /customers/upload [post]
// @Security     BearerAuth
func (h *CustomerHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	result, err := h.distService.Upload(c.Request().Context(), ports.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return err
	}

	entries := make([]uploadEntry, 0, len(result.Distribution))
	for _, d := range result.Distribution {
		entries = append(entries, uploadEntry{
			AgentName:      d.AgentName,
			Email:          d.Email,
			CustomersCount: d.CustomersCount,
			Customers:      d.Customers,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"message":      fmt.Sprintf("successfully uploaded and distributed %d customers", result.Uploaded),
		"distribution": entries,
	})
}

// Distribution returns the current assignment state across all agents.
//
// @Summary      Get customer distribution
// @Tags         customers
// @Produce      json
// @Success      200   {object}  map[string]any
// @Router       /customers/distribution [get]
// @Security     BearerAuth
func (h *CustomerHandler) Distribution(c echo.Context) error {
	distribution, err := h.distService.Distribution(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"distribution": distribution,
	})
}
