// Package notes wraps note storage and the AI summarization gateway.
package notes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hi-z-k/focustime/internal/auth"
	"github.com/hi-z-k/focustime/internal/store"
)

// NoteStore is the slice of the store this service writes through.
type NoteStore interface {
	CreateNote(userID, title, content string) (*store.Note, error)
	GetNote(id string) (*store.Note, error)
	ListNotes(userID string) ([]store.Note, error)
	UpdateNote(id, title, content string) error
	DeleteNote(id string) error
}

type Service struct {
	store   NoteStore
	session auth.Session

	mu         sync.Mutex
	summarizer *Summarizer
}

func NewService(ns NoteStore, session auth.Session, summarizer *Summarizer) *Service {
	return &Service{store: ns, session: session, summarizer: summarizer}
}

// SetSummarizer swaps the gateway client when the endpoint changes.
func (s *Service) SetSummarizer(sm *Summarizer) {
	s.mu.Lock()
	s.summarizer = sm
	s.mu.Unlock()
}

// Create validates before any I/O: content is required, title may be empty.
func (s *Service) Create(title, content string) (*store.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("create note: content is required")
	}
	return s.store.CreateNote(s.session.UserID, title, content)
}

func (s *Service) List() ([]store.Note, error) {
	return s.store.ListNotes(s.session.UserID)
}

func (s *Service) Edit(id, title, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("edit note: content is required")
	}
	return s.store.UpdateNote(id, title, content)
}

func (s *Service) Delete(id string) error {
	return s.store.DeleteNote(id)
}

// Summarize sends a note's content through the gateway. On any transport
// or decoding failure the canned fallback is returned alongside the error
// so the caller always has something to show.
func (s *Service) Summarize(ctx context.Context, id string) (string, error) {
	n, err := s.store.GetNote(id)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	sm := s.summarizer
	s.mu.Unlock()
	summary, err := sm.Summarize(ctx, n.Content)
	if err != nil {
		return FallbackSummary, err
	}
	return summary, nil
}
