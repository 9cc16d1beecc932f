package domain

import (
	"encoding/json"
	"time"
)

// EventName identifies an inbound message on the event-stream connection.
type EventName string

const (
	EventPedidoCreado       EventName = "pedido:creado"
	EventMesaOcupada        EventName = "mesa:ocupada"
	EventCalificacionCreada EventName = "calificacion:creada"
	EventPagoCreado         EventName = "pago:creado"
	EventMozoLlamada        EventName = "mozo:llamada"
	EventSesionIniciada     EventName = "sesion:iniciada"

	EventClientesConectados  EventName = "admin:clientes-conectados"
	EventClienteConectado    EventName = "cliente:conectado"
	EventClienteDesconectado EventName = "cliente:desconectado"

	// Outbound only.
	EventAuthenticate EventName = "authenticate"
)

// Frame is the wire envelope for every event-stream message, in both
// directions.
type Frame struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type AuthenticatePayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	UserRole string `json:"userRole"`
}

type PedidoCreadoPayload struct {
	PedidoID      string  `json:"pedido_id"`
	NumeroPedido  string  `json:"numero_pedido"`
	NombreCliente string  `json:"nombre_cliente"`
	MesaNumero    int     `json:"mesa_numero"`
	PrecioTotal   float64 `json:"precio_total"`
}

type MesaOcupadaPayload struct {
	MesaID        string `json:"mesa_id"`
	Numero        int    `json:"numero"`
	ClienteNombre string `json:"cliente_nombre"`
}

type CalificacionCreadaPayload struct {
	CalificacionID string `json:"calificacion_id"`
	PedidoID       string `json:"pedido_id"`
	Puntuacion     int    `json:"puntuacion"`
	NombreCliente  string `json:"nombre_cliente"`
}

type PagoCreadoPayload struct {
	PagoID      string  `json:"pago_id"`
	PedidoID    string  `json:"pedido_id"`
	MedioDePago string  `json:"medio_de_pago"`
	MontoFinal  float64 `json:"monto_final"`
	MesaNumero  int     `json:"mesa_numero"`
}

type MozoLlamadaPayload struct {
	MesaID     string `json:"mesa_id"`
	MesaNumero int    `json:"mesa_numero"`
}

type SesionIniciadaPayload struct {
	SesionID   string `json:"sesion_id"`
	MesaNumero int    `json:"mesa_numero"`
}

// EventLog is one journaled server event, kept for the reports and
// error-log views. Independent from the capped in-memory lists.
type EventLog struct {
	ID        int64           `json:"id" db:"id"`
	Event     EventName       `json:"event" db:"event"`
	Category  ServerCategory  `json:"tipo" db:"tipo"`
	Title     string          `json:"titulo" db:"titulo"`
	Message   string          `json:"mensaje" db:"mensaje"`
	Payload   json.RawMessage `json:"payload,omitempty" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
