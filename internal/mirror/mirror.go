// Package mirror keeps the durable token store synchronized with the
// transient session. It is a pure reaction to session transitions: it
// never initiates network calls and never reads the store to decide
// anything. One direction only, session to store.
package mirror

import (
	"satang/internal/log"
	"satang/internal/session"
	"satang/internal/tokenstore"
)

type Mirror struct {
	store  *tokenstore.Store
	logger *log.Logger
}

func New(store *tokenstore.Store, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentMirror})
	}
	return &Mirror{
		store:  store,
		logger: logger.WithComponent(log.ComponentMirror),
	}
}

// Attach subscribes the mirror to the publisher and returns the
// unsubscribe function.
func (m *Mirror) Attach(publisher *session.Publisher) func() {
	return publisher.Subscribe(m.observe)
}

func (m *Mirror) observe(state session.State) {
	switch state.Status {
	case session.StatusAuthenticated:
		if state.Token == "" {
			return
		}
		m.store.SaveToken(state.Token)
		m.store.SaveUser(state.User)
		m.logger.Debug("Token mirrored to store", log.FieldOperation, log.OpSave)
	case session.StatusUnauthenticated:
		m.store.RemoveToken()
		m.store.RemoveUser()
		m.logger.Debug("Token removed from store", log.FieldOperation, log.OpRemove)
	}
}
