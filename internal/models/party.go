package models

// Party представляет поставщика из справочника клиентов.
// Для этого сервиса справочник доступен только на чтение.
type Party struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city"`
	CompanyName string `json:"companyName"`
}
