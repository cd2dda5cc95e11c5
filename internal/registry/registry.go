package registry

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 6

	maxCreateAttempts = 16
)

// IDGenerator produces candidate session ids.
type IDGenerator func() (string, error)

// Registry owns every live session. It is not safe for concurrent use; the engine loop is its only caller.
type Registry struct {
	sessions map[string]*entity.Session
	newID    IDGenerator
}

func New() *Registry {
	return NewWithGenerator(GenerateSessionID)
}

func NewWithGenerator(generator IDGenerator) *Registry {
	return &Registry{
		sessions: make(map[string]*entity.Session),
		newID:    generator,
	}
}

// Create - registers a waiting session with creator as its only participant.
func (that *Registry) Create(creator string) (*entity.Session, error) {
	for range maxCreateAttempts {
		id, err := that.newID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session id: %w", err)
		}

		if _, taken := that.sessions[id]; taken {
			continue
		}

		session := entity.NewSession(id, creator)
		that.sessions[id] = session

		return session, nil
	}

	return nil, apperror.ErrIDSpaceExhausted
}

func (that *Registry) Get(id string) (*entity.Session, error) {
	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return session, nil
}

func (that *Registry) Remove(id string) {
	delete(that.sessions, id)
}

// SessionsOf - every session connID is seated in.
func (that *Registry) SessionsOf(connID string) []*entity.Session {
	var sessions []*entity.Session
	for _, session := range that.sessions {
		if session.IsParticipant(connID) {
			sessions = append(sessions, session)
		}
	}

	return sessions
}

func (that *Registry) Len() int {
	return len(that.sessions)
}

// GenerateSessionID - generates a shareable 6 character id.
func GenerateSessionID() (string, error) {
	id := make([]byte, idLength)
	limit := big.NewInt(int64(len(idAlphabet)))

	for i := range id {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}
		id[i] = idAlphabet[n.Int64()]
	}

	return string(id), nil
}
