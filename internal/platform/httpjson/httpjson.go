// Package httpjson escribe el sobre JSON que comparte toda la API:
// {success:true, data|message} en éxito y {success:false, message, errors?} en falla.
package httpjson

import (
	"encoding/json"
	"net/http"
)

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Data(w http.ResponseWriter, status int, data any) {
	Write(w, status, map[string]any{"success": true, "data": data})
}

func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]any{"success": true, "message": msg})
}

func Failure(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]any{"success": false, "message": msg})
}

// FieldFailure agrega el detalle por campo que produce la validación de entrada.
func FieldFailure(w http.ResponseWriter, status int, msg string, errs any) {
	Write(w, status, map[string]any{"success": false, "message": msg, "errors": errs})
}
