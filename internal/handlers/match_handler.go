package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-analyzer/internal/models"
	"alfredoptarigan/cv-analyzer/internal/services"
)

type MatchHandler struct {
	analyzer       services.CVAnalyzerService
	storageService services.StorageService
	exporter       services.ExportService
	debugger       services.DebuggerService
	maxFileSize    int64
}

func NewMatchHandler(
	analyzer services.CVAnalyzerService,
	storageService services.StorageService,
	exporter services.ExportService,
	debugger services.DebuggerService,
	maxFileSize int64,
) *MatchHandler {
	return &MatchHandler{
		analyzer:       analyzer,
		storageService: storageService,
		exporter:       exporter,
		debugger:       debugger,
		maxFileSize:    maxFileSize,
	}
}

// HandleMatch handles POST /match. The CV is uploaded as the "cv" form
// file; the job description comes from the "job_description" form value
// or, when absent, from an uploaded "job_file". The analysis runs
// synchronously and the uploaded files never outlive the request.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	cvFile, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No CV file uploaded. Please upload 'cv' as a PDF or DOCX file.",
		})
	}

	if cvFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	jobDescription := strings.TrimSpace(c.FormValue("job_description"))

	if jobDescription == "" {
		jobFile, err := c.FormFile("job_file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Provide 'job_description' text or upload a 'job_file'.",
			})
		}

		jobDescription, err = h.readJobFile(jobFile)
		if err != nil {
			h.debugger.LogError(err, "job_description_reading")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read job description: %v", err),
			})
		}
	}

	cvData, err := readFormFile(cvFile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read CV file: %v", err),
		})
	}

	cvPath, err := h.storageService.SaveTemp(cvData, cvFile.Filename)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to stage CV file: %v", err),
		})
	}
	defer h.storageService.RemoveTemp(cvPath)

	result, err := h.analyzer.AnalyzeFile(c.Context(), cvPath, jobDescription)
	if err != nil {
		h.debugger.LogError(err, "job_matching")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to match CV: %v", err),
		})
	}

	result.Filename = cvFile.Filename

	switch c.Query("export") {
	case "":
		return c.JSON(models.MatchResponse{
			Result:          result,
			MatchScore:      result.RelevanceScore,
			MissingSkills:   result.MissingSkills,
			Recommendations: result.Recommendations,
		})
	case "json":
		data, err := h.exporter.ResultJSON(result)
		if err != nil {
			return exportError(c, err)
		}
		return sendArtifact(c, data, "job_match.json", "application/json")
	case "csv":
		data, err := h.exporter.ResultCSV(result)
		if err != nil {
			return exportError(c, err)
		}
		return sendArtifact(c, data, "job_match.csv", "text/csv")
	case "excel":
		data, err := h.exporter.ResultExcel(result)
		if err != nil {
			return exportError(c, err)
		}
		return sendArtifact(c, data, "job_match.xlsx", xlsxContentType)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported export format. Use json, csv or excel.",
		})
	}
}

func (h *MatchHandler) readJobFile(jobFile *multipart.FileHeader) (string, error) {
	data, err := readFormFile(jobFile)
	if err != nil {
		return "", err
	}

	jobPath, err := h.storageService.SaveTemp(data, jobFile.Filename)
	if err != nil {
		return "", err
	}
	defer h.storageService.RemoveTemp(jobPath)

	return h.analyzer.ExtractText(jobPath)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return data, nil
}

func sendArtifact(c *fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

func exportError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fmt.Sprintf("failed to build export: %v", err),
	})
}
