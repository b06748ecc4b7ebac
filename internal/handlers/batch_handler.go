package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-analyzer/internal/models"
	"alfredoptarigan/cv-analyzer/internal/services"
)

type BatchHandler struct {
	batchService services.BatchService
	exporter     services.ExportService
	debugger     services.DebuggerService
	maxFileSize  int64
}

func NewBatchHandler(
	batchService services.BatchService,
	exporter services.ExportService,
	debugger services.DebuggerService,
	maxFileSize int64,
) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
		exporter:     exporter,
		debugger:     debugger,
		maxFileSize:  maxFileSize,
	}
}

// HandleBatch handles POST /batch. Documents are uploaded as repeated
// "files" form entries with an optional shared "job_description" form
// value. The response is the full batch report: results, per-document
// failures, overview table, and ranking when a job description was
// supplied.
func (h *BatchHandler) HandleBatch(c *fiber.Ctx) error {
	report, err := h.runBatch(c)
	if err != nil {
		return err
	}

	return c.JSON(report)
}

// HandleBatchExport handles POST /batch/export?format=json|csv|excel.
// The batch runs the same way; the response is the export artifact
// instead of the report.
func (h *BatchHandler) HandleBatchExport(c *fiber.Ctx) error {
	format := c.Query("format", "json")
	if format != "json" && format != "csv" && format != "excel" {
		return fiber.NewError(fiber.StatusBadRequest, "Unsupported export format. Use json, csv or excel.")
	}

	report, err := h.runBatch(c)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := h.exporter.ResultsJSON(report.Results)
		if err != nil {
			return h.batchError(err)
		}
		return sendArtifact(c, data, "batch_analysis.json", "application/json")
	case "csv":
		data, err := h.exporter.OverviewCSV(report.Overview)
		if err != nil {
			return h.batchError(err)
		}
		return sendArtifact(c, data, "batch_analysis.csv", "text/csv")
	default:
		data, err := h.exporter.BatchExcel(report.Overview, report.Results)
		if err != nil {
			return h.batchError(err)
		}
		return sendArtifact(c, data, "batch_analysis.xlsx", xlsxContentType)
	}
}

func (h *BatchHandler) runBatch(c *fiber.Ctx) (*models.BatchReport, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No files uploaded. Please upload 'files' as PDF or DOCX files.")
	}

	docs := make([]models.BatchDocument, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.maxFileSize {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("File %s too large. Max size: %d bytes", fh.Filename, h.maxFileSize))
		}

		data, err := readFormFile(fh)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("failed to read %s: %v", fh.Filename, err))
		}

		docs = append(docs, models.BatchDocument{
			Filename: fh.Filename,
			Data:     data,
		})
	}

	jobDescription := strings.TrimSpace(c.FormValue("job_description"))

	report, err := h.batchService.Run(c.Context(), docs, jobDescription, nil)
	if err != nil {
		return nil, h.batchError(err)
	}

	return report, nil
}

func (h *BatchHandler) batchError(err error) error {
	h.debugger.LogError(err, "batch_analysis")
	return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("batch analysis failed: %v", err))
}
