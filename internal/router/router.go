package router

import (
	"net/http"

	"github.com/senyabanana/tender-board/internal/handlers"
)

func InitRoutes(tenderHandler *handlers.TenderHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)
	mux.HandleFunc("/api/tenders", tenderHandler.GetTenders)
	mux.HandleFunc("/api/tenders/new", tenderHandler.CreateTender)
	mux.HandleFunc("GET /api/tenders/{tenderId}", tenderHandler.GetTenderDetail)
	mux.HandleFunc("PATCH /api/tenders/{tenderId}/close", tenderHandler.CloseTender)
	mux.HandleFunc("POST /api/tenders/{tenderId}/quotations/{clientId}", tenderHandler.AddQuotation)
	mux.HandleFunc("POST /api/tenders/{tenderId}/share", tenderHandler.ShareTender)

	return mux
}
