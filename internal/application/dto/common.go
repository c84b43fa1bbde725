package dto

// ErrorResponse respuesta de error estándar de la API.
//
// Para fallos de autorización Message lleva solo el motivo mínimo (rol o
// página), nunca los datos denegados; para fallos upstream lleva un mensaje
// genérico y el detalle queda en los logs del servidor.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
