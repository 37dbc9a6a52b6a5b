package dto

import "time"

// ProfileResponse is the caller's extended profile row.
type ProfileResponse struct {
	UsuarioID     int64     `json:"usuario_id"`
	AuthUID       string    `json:"auth_uid"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	TipoUsuario   string    `json:"tipo_usuario"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// SyncResponse acknowledges the intentionally inert sync endpoint.
type SyncResponse struct {
	Msg string `json:"msg"`
}
