package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/json-oracle/oracle_engine/constants"
	"github.com/json-oracle/oracle_engine/internal/models"
	"github.com/json-oracle/oracle_engine/rabbitmq"
)

// Dispatcher fans a terminal result out to every configured channel:
// the integration's webhook, the request's callback URL, the broker
// exchange, and connected websocket subscribers. Every channel is
// fire-and-forget; a submission's outcome never depends on delivery.
type Dispatcher struct {
	sender      Sender
	qConn       *rabbitmq.Conn
	exchange    string
	hub         *Hub
	sendTimeout time.Duration
	log         *logrus.Logger
}

func NewDispatcher(sender Sender, qConn *rabbitmq.Conn, exchange string, hub *Hub,
	sendTimeout time.Duration, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		qConn:       qConn,
		exchange:    exchange,
		hub:         hub,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// Dispatch spawns one goroutine per delivery and returns immediately.
func (d *Dispatcher) Dispatch(result models.AnalysisResult, webhookURL, callbackURL string) {
	if webhookURL != "" {
		go d.deliver("webhook", webhookURL, result)
	}
	if callbackURL != "" {
		go d.deliver("callback", callbackURL, result)
	}
	go d.publishEvent(result)

	if d.hub != nil {
		d.hub.Broadcast(result)
	}
}

func (d *Dispatcher) deliver(channel, url string, result models.AnalysisResult) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, url, result); err != nil {
		d.log.Errorf("cannot deliver %s notification for result %s: %v", channel, result.ID, err)
		return
	}
	d.log.Debugf("delivered %s notification for result %s", channel, result.ID)
}

// publishEvent mirrors the result onto the broker exchange so downstream
// consumers can react without polling. Skipped silently when the broker is
// not connected.
func (d *Dispatcher) publishEvent(result models.AnalysisResult) {
	if d.qConn == nil || d.qConn.Channel == nil {
		return
	}

	routingKey := constants.AnalysisCompleted
	if result.Status == models.AnalysisFailed {
		routingKey = constants.AnalysisFailed
	}

	body, err := json.Marshal(result)
	if err != nil {
		d.log.Errorf("cannot marshal event for result %s: %v", result.ID, err)
		return
	}
	if err := d.qConn.PublishMessage(d.exchange, routingKey, body); err != nil {
		d.log.Errorf("cannot publish %s event for result %s: %v", routingKey, result.ID, err)
	}
}
