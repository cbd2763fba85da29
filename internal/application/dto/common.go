package dto

// APIResponse sobre uniforme de todas las respuestas HTTP: {success, message, data}.
// Code solo va en errores (NOT_FOUND, VALIDATION, INSUFFICIENT_STOCK...).
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data"`
}

// DateRangeQuery filtros ?from=&to= (RFC3339 o YYYY-MM-DD).
type DateRangeQuery struct {
	From string `query:"from"`
	To   string `query:"to"`
}
