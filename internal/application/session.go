package app

import (
	"context"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState меняет только состояние, не трогая сохранённые замеры
func (s *SessionService) SetState(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.Session, error) {
	// Get заводит сессию, если её ещё нет
	if _, err := s.repo.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, userID, chatID)
}

func (s *SessionService) BeginMeasure(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// Record сохраняет успешный замер и возвращает пользователя в главное меню
func (s *SessionService) Record(ctx context.Context, userID, chatID int64, d entity.Dimensions) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.Record(d)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
