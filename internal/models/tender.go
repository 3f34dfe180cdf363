package models

import "time"

// Окно приёма предложений: тендер закрывается через 48 часов после создания.
const ClosingWindow = 48 * time.Hour

// Tender представляет модель тендера.
type Tender struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Color       []string    `json:"color"`
	Qty         int         `json:"qty"`
	Images      []string    `json:"images"`
	ValidParty  []string    `json:"validParty"`
	AddedBy     string      `json:"addedBy"`
	AddedByName string      `json:"addedByName"`
	CreatedOn   time.Time   `json:"createdOn"`
	ClosesOn    time.Time   `json:"closesOn"`
	Active      bool        `json:"active"`
	Quotations  []Quotation `json:"quotations"`
}

// Quotation представляет предложение поставщика по тендеру.
// Записи только добавляются, существующие никогда не изменяются.
type Quotation struct {
	ID       string    `json:"-"`
	TenderID string    `json:"-"`
	PartyID  string    `json:"party"`
	Rate     float64   `json:"rate"`
	Color    string    `json:"color,omitempty"`
	AddedOn  time.Time `json:"addedOn"`
}

// TenderRequest представляет структуру запроса для создания тендера.
type TenderRequest struct {
	Title       string
	Description string
	Color       []string
	Qty         int
	Images      []string
	ValidParty  []string
	AddedBy     string
	AddedByName string
}

// QuotationRequest представляет структуру запроса для добавления предложения.
type QuotationRequest struct {
	Rate  float64 `json:"rate"`
	Color string  `json:"color"`
}

// QuotationDetail - проекция предложения с контактными данными поставщика
// для страницы результатов тендера.
type QuotationDetail struct {
	AddedOn     time.Time `json:"addedOn"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	City        string    `json:"city"`
	CompanyName string    `json:"companyName"`
	PartyID     string    `json:"id"`
	Rate        float64   `json:"rate"`
	Color       string    `json:"color,omitempty"`
}
