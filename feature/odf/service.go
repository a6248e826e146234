package odf

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"odf-core/feature/odf/parse"
)

// Outcome classifies what happened to an inbound message.
type Outcome string

const (
	// OutcomeApplied means a handler reconciled the message and the
	// transaction committed.
	OutcomeApplied Outcome = "applied"
	// OutcomeUnhandled means no routing table entry matched; the message
	// is acknowledged but ignored.
	OutcomeUnhandled Outcome = "unhandled"
)

// Report is the result of ingesting one message.
type Report struct {
	Outcome    Outcome        `json:"outcome"`
	Type       string         `json:"type"`
	Discipline string         `json:"discipline"`
	Subtype    string         `json:"subtype"`
	Route      parse.RouteKey `json:"route,omitempty"`
}

// Service is the ingestion entry point. It owns the transaction
// boundary: one database transaction per message, committed only when
// the resolved handler returns without error.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	registry *parse.Registry
	notifier Notifier
}

// NewService creates the ingestion service.
func NewService(db *gorm.DB, logger *zap.Logger, registry *parse.Registry, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		db:       db,
		logger:   logger,
		registry: registry,
		notifier: notifier,
	}
}

// Ingest classifies raw XML bytes, resolves a handler and runs it
// inside one transaction. Envelope and decode failures surface as
// errors; an unmatched routing key is a reported outcome, not an error.
// The notifier fires once per committed message, best-effort.
func (s *Service) Ingest(ctx context.Context, raw []byte) (*Report, error) {
	msg, err := parse.Envelope(raw)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("type", msg.Type),
		zap.String("discipline", msg.Discipline),
		zap.String("subtype", msg.Subtype),
	)

	handler, route, ok := s.registry.Resolve(msg)
	if !ok {
		log.Warn("no handler registered for message")
		return &Report{
			Outcome:    OutcomeUnhandled,
			Type:       msg.Type,
			Discipline: msg.Discipline,
			Subtype:    msg.Subtype,
		}, nil
	}

	log.Info("message routed",
		zap.String("route_discipline", route.Discipline),
		zap.String("route_subtype", route.Subtype))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return handler(tx, log, msg)
	})
	if err != nil {
		log.Error("message reconciliation failed, transaction rolled back", zap.Error(err))
		return nil, err
	}

	s.notifier.DataChanged(msg.Type)

	return &Report{
		Outcome:    OutcomeApplied,
		Type:       msg.Type,
		Discipline: msg.Discipline,
		Subtype:    msg.Subtype,
		Route:      route,
	}, nil
}
