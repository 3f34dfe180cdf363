package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/senyabanana/tender-board/internal/models"
	"github.com/senyabanana/tender-board/internal/services"
	"github.com/senyabanana/tender-board/internal/utils"

	"go.uber.org/zap"
)

// TenderHandler - структура для обработки HTTP-запросов.
type TenderHandler struct {
	Service *services.TenderService
	Uploads *services.UploadService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(service *services.TenderService, uploads *services.UploadService, logger *zap.Logger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Uploads: uploads,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateTender обрабатывает multipart-запросы на создание тендера с вложениями.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var files []services.UploadedFile
	if r.MultipartForm != nil {
		for _, fileHeader := range r.MultipartForm.File["files"] {
			file, err := fileHeader.Open()
			if err != nil {
				utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
				return
			}
			files = append(files, services.UploadedFile{
				Name:        fileHeader.Filename,
				Data:        data,
				ContentType: fileHeader.Header.Get("Content-Type"),
			})
		}
	}

	qty, err := utils.ParseQty(r.FormValue("qty"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	form := services.CreateTenderForm{
		Title:       r.FormValue("title"),
		Descr:       r.FormValue("descr"),
		Colors:      r.FormValue("colors"),
		Qty:         qty,
		ValidParty:  r.FormValue("validParty"),
		AddedBy:     r.FormValue("id"),
		AddedByName: r.FormValue("name"),
	}

	tender, err := h.Uploads.UploadAndCreate(ctx, files, form)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("create tender rejected", zap.Error(err))
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to create tender", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.SendSuccessResponse(w, "Files uploaded successfully", map[string]interface{}{
		"newPost": tender,
	})
}

// GetTenders обрабатывает запросы для получения списка тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenders, err := h.Service.FetchTenders(ctx)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to fetch tenders", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.SendSuccessResponse(w, "Fetched", map[string]interface{}{
		"tendors": tenders,
	})
}

// GetTenderDetail обрабатывает запросы деталей тендера с контактами поставщиков.
func (h *TenderHandler) GetTenderDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId := r.PathValue("tenderId")

	tender, quotations, err := h.Service.GetTenderDetail(ctx, tenderId)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to fetch tender detail", zap.String("tenderId", tenderId), zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.SendSuccessResponse(w, "Tendor fetched", map[string]interface{}{
		"tendor":     tender,
		"quotations": quotations,
	})
}

// CloseTender обрабатывает запросы на ручное закрытие тендера.
func (h *TenderHandler) CloseTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId := r.PathValue("tenderId")

	tender, err := h.Service.CloseTender(ctx, tenderId)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to close tender", zap.String("tenderId", tenderId), zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.SendSuccessResponse(w, "Tendor closed successfully", map[string]interface{}{
		"tendor": tender,
	})
}

// AddQuotation обрабатывает запросы на добавление предложения поставщика.
func (h *TenderHandler) AddQuotation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId := r.PathValue("tenderId")
	clientId := r.PathValue("clientId")

	var quotationReq models.QuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&quotationReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Service.AddQuotation(ctx, tenderId, clientId, quotationReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to add quotation",
			zap.String("tenderId", tenderId),
			zap.String("clientId", clientId),
			zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.SendSuccessResponse(w, "Quotation added successfully", map[string]interface{}{
		"post": tender,
	})
}

// ShareTender обрабатывает запросы на рассылку результатов тендера.
func (h *TenderHandler) ShareTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderId := r.PathValue("tenderId")

	if err := h.Service.ShareTenderResult(ctx, tenderId); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to share tender result", zap.String("tenderId", tenderId), zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.SendSuccessResponse(w, "Notifications sent successfully", nil)
}
