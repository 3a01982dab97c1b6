package app

import (
	"context"
	"errors"

	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/db"
)

func (s *Service) Topics() []catalog.Topic {
	return s.store.Topics()
}

func (s *Service) ResolveTopic(id string) (catalog.Topic, bool) {
	return s.store.ResolveTopic(id)
}

func (s *Service) CreateTopic(ctx context.Context, fields catalog.TopicFields) (catalog.Topic, error) {
	topic, err := s.store.CreateTopic(ctx, fields)
	if err != nil {
		return topic, err
	}
	return topic, s.mirrorTopic(ctx, topic)
}

func (s *Service) UpdateTopic(ctx context.Context, id string, fields catalog.TopicFields) (catalog.Topic, error) {
	topic, err := s.store.UpdateTopic(ctx, id, fields)
	if err != nil {
		return topic, err
	}
	return topic, s.mirrorTopic(ctx, topic)
}

func (s *Service) DeleteTopic(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.DeleteTopic(ctx, id)
	if err != nil || !deleted || s.remote == nil {
		return deleted, err
	}
	remote, err := s.remote.FindTopicBySlug(ctx, s.ownerID(ctx), id)
	if errors.Is(err, db.ErrRemoteNotFound) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return true, s.remote.DeleteTopic(ctx, remote.ID)
}

func (s *Service) mirrorTopic(ctx context.Context, topic catalog.Topic) error {
	if s.remote == nil {
		return nil
	}
	owner := s.ownerID(ctx)
	remote, err := s.remote.FindTopicBySlug(ctx, owner, topic.ID)
	if errors.Is(err, db.ErrRemoteNotFound) {
		_, err = s.remote.InsertTopic(ctx, db.EducationTopic{
			UserID:  owner,
			Slug:    topic.ID,
			Title:   topic.Title,
			Content: topic.Content,
		})
		return err
	}
	if err != nil {
		return err
	}
	_, err = s.remote.UpdateTopic(ctx, remote.ID, topic.Title, topic.Content)
	return err
}

// ErrRemoteDisabled is returned by operations that only exist remotely.
var ErrRemoteDisabled = errors.New("remote store is not configured")

// History lists the remote usage history of the current owner.
func (s *Service) History(ctx context.Context) ([]db.PromptHistory, error) {
	if s.remote == nil {
		return nil, ErrRemoteDisabled
	}
	return s.remote.ListHistory(ctx, s.ownerID(ctx))
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*db.User, error) {
	if s.remote == nil {
		return nil, ErrRemoteDisabled
	}
	return s.remote.SignUp(ctx, email, password)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*db.User, error) {
	if s.remote == nil {
		return nil, ErrRemoteDisabled
	}
	return s.remote.SignIn(ctx, email, password)
}

func (s *Service) SignOut(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	return s.remote.SignOut(ctx)
}
