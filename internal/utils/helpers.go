package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	body := map[string]interface{}{
		"success": false,
		"message": message,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println(err)
	}
}

// SendSuccessResponse отправляет успешный ответ в формате {success, message, ...payload}
func SendSuccessResponse(w http.ResponseWriter, message string, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	body := map[string]interface{}{
		"success": true,
		"message": message,
	}
	for key, value := range payload {
		body[key] = value
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println(err)
	}
}

// FormatClosingDate форматирует дату закрытия для писем и сообщений.
func FormatClosingDate(t time.Time) string {
	return t.Format("02 Jan 2006, 03:04 PM")
}

// ParseQty обрабатывает поле qty из multipart-формы.
func ParseQty(qtyStr string) (int, error) {
	if qtyStr == "" {
		return 0, nil
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil || qty < 0 {
		return 0, fmt.Errorf("invalid qty parameter, must be a non-negative integer")
	}
	return qty, nil
}
