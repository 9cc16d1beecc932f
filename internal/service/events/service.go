package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/repository"
	"restaurante-admin/internal/service/notification"
	"restaurante-admin/internal/service/presence"
	"restaurante-admin/internal/service/socket"
)

// Admin view routes the notifications navigate to on click.
const (
	RutaPedidosActivos = "/pedidos-activos"
	RutaMesasActivas   = "/mesas/activas"
	RutaCalificaciones = "/clientes/calificaciones"
	RutaPagos          = "/clientes/pagos"
)

// Service translates raw gateway events into typed notifications,
// presence updates and journal entries. Unknown events never reach it:
// the socket dispatch table only routes names registered here.
type Service interface {
	// Bind registers a handler per known event on the connection manager.
	Bind()

	// Unbind removes them again. Call on teardown.
	Unbind()
}

type service struct {
	socket   socket.Service
	notifs   notification.Service
	presence presence.Service
	journal  repository.EventLogRepository
}

// NewService wires the normalizer. journal may be nil, events are then
// not persisted.
func NewService(sock socket.Service, notifs notification.Service, pres presence.Service, journal repository.EventLogRepository) Service {
	return &service{
		socket:   sock,
		notifs:   notifs,
		presence: pres,
		journal:  journal,
	}
}

var boundEvents = []domain.EventName{
	domain.EventPedidoCreado,
	domain.EventMesaOcupada,
	domain.EventCalificacionCreada,
	domain.EventPagoCreado,
	domain.EventMozoLlamada,
	domain.EventSesionIniciada,
	domain.EventClientesConectados,
	domain.EventClienteConectado,
	domain.EventClienteDesconectado,
}

func (s *service) Bind() {
	s.socket.On(domain.EventPedidoCreado, s.onPedidoCreado)
	s.socket.On(domain.EventMesaOcupada, s.onMesaOcupada)
	s.socket.On(domain.EventCalificacionCreada, s.onCalificacionCreada)
	s.socket.On(domain.EventPagoCreado, s.onPagoCreado)
	s.socket.On(domain.EventMozoLlamada, s.onMozoLlamada)
	s.socket.On(domain.EventSesionIniciada, s.onSesionIniciada)
	s.socket.On(domain.EventClientesConectados, s.onClientesConectados)
	s.socket.On(domain.EventClienteConectado, s.onClienteConectado)
	s.socket.On(domain.EventClienteDesconectado, s.onClienteDesconectado)
}

func (s *service) Unbind() {
	for _, ev := range boundEvents {
		s.socket.Off(ev)
	}
}

// decode unmarshals a payload, reporting whether it was usable. Malformed
// payloads are dropped silently, matching the tolerance for unknown
// events.
func decode[T any](data json.RawMessage, out *T) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *service) onPedidoCreado(data json.RawMessage) {
	var p domain.PedidoCreadoPayload
	if !decode(data, &p) {
		return
	}

	title := "Nuevo pedido"
	message := fmt.Sprintf("Mesa %d realizó un pedido de $%.2f", p.MesaNumero, p.PrecioTotal)
	s.notifs.AddServer(domain.CategoryPedido, title, message, RutaPedidosActivos)
	s.notifs.IncrementCategory(domain.CategoryPedido)
	s.record(domain.EventPedidoCreado, domain.CategoryPedido, title, message, data)
}

func (s *service) onMesaOcupada(data json.RawMessage) {
	var p domain.MesaOcupadaPayload
	if !decode(data, &p) {
		return
	}

	title := "Mesa ocupada"
	message := fmt.Sprintf("Mesa %d inició una nueva sesión", p.Numero)
	s.notifs.AddServer(domain.CategoryMesa, title, message, RutaMesasActivas)
	s.notifs.IncrementCategory(domain.CategoryMesa)
	s.record(domain.EventMesaOcupada, domain.CategoryMesa, title, message, data)
}

func (s *service) onCalificacionCreada(data json.RawMessage) {
	var p domain.CalificacionCreadaPayload
	if !decode(data, &p) {
		return
	}

	title := "Nueva reseña"
	message := fmt.Sprintf("%s calificó con %d estrellas", p.NombreCliente, p.Puntuacion)
	route := fmt.Sprintf("%s?pedido_id=%s", RutaCalificaciones, p.PedidoID)
	s.notifs.AddServer(domain.CategoryResena, title, message, route)
	s.notifs.IncrementCategory(domain.CategoryResena)
	s.record(domain.EventCalificacionCreada, domain.CategoryResena, title, message, data)
}

func (s *service) onPagoCreado(data json.RawMessage) {
	var p domain.PagoCreadoPayload
	if !decode(data, &p) {
		return
	}

	title := "Nuevo pago"
	message := fmt.Sprintf("Pedido %s pagado: $%.2f (%s)", p.PedidoID, p.MontoFinal, p.MedioDePago)
	route := fmt.Sprintf("%s?pedido_id=%s", RutaPagos, p.PedidoID)
	s.notifs.AddServer(domain.CategoryPago, title, message, route)
	s.notifs.IncrementCategory(domain.CategoryPago)
	s.record(domain.EventPagoCreado, domain.CategoryPago, title, message, data)
}

func (s *service) onMozoLlamada(data json.RawMessage) {
	var p domain.MozoLlamadaPayload
	if !decode(data, &p) {
		return
	}

	title := "Llamada al mozo"
	message := fmt.Sprintf("Mesa %d solicita atención", p.MesaNumero)
	s.notifs.AddServer(domain.CategoryMozo, title, message, RutaMesasActivas)
	s.notifs.IncrementCategory(domain.CategoryMozo)
	s.record(domain.EventMozoLlamada, domain.CategoryMozo, title, message, data)
}

func (s *service) onSesionIniciada(data json.RawMessage) {
	var p domain.SesionIniciadaPayload
	if !decode(data, &p) {
		return
	}
	s.notifs.Success("Nueva sesión", fmt.Sprintf("Mesa %d iniciada", p.MesaNumero))
}

func (s *service) onClientesConectados(data json.RawMessage) {
	var clients []domain.ConnectedClient
	if !decode(data, &clients) {
		return
	}
	s.presence.Replace(clients)
}

func (s *service) onClienteConectado(data json.RawMessage) {
	var client domain.ConnectedClient
	if !decode(data, &client) {
		return
	}
	s.presence.Add(client)
}

func (s *service) onClienteDesconectado(data json.RawMessage) {
	var client domain.ConnectedClient
	if !decode(data, &client) {
		return
	}
	s.presence.RemoveBySocketID(client.SocketID)
}

func (s *service) record(event domain.EventName, category domain.ServerCategory, title, message string, payload json.RawMessage) {
	if s.journal == nil {
		return
	}

	entry := &domain.EventLog{
		Event:    event,
		Category: category,
		Title:    title,
		Message:  message,
		Payload:  payload,
	}

	go func() {
		if err := s.journal.Create(context.Background(), entry); err != nil {
			log.Printf("Failed to journal event %s: %v", event, err)
		}
	}()
}
