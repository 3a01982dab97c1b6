package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/smith3v/trade-prompts/pkg/logger"
)

const customTopicPrefix = "custom-"

func (s *Store) Topics() []Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Topic{}, s.topics...)
}

func (s *Store) Topic(id string) (Topic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.topicIndex(s.topics, id)
	if idx < 0 {
		return Topic{}, false
	}
	return s.topics[idx], true
}

// ResolveTopic returns the topic with id, or the first topic when id is
// unknown. ok is false only when there are no topics at all.
func (s *Store) ResolveTopic(id string) (Topic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.topicIndex(s.topics, id); idx >= 0 {
		return s.topics[idx], true
	}
	if len(s.topics) == 0 {
		return Topic{}, false
	}
	return s.topics[0], true
}

func (s *Store) topicIndex(topics []Topic, id string) int {
	for i, t := range topics {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// cleanTopic validates fields and sanitizes the HTML content.
func (s *Store) cleanTopic(fields TopicFields) (title, content string, err error) {
	title = strings.TrimSpace(fields.Title)
	if title == "" {
		return "", "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(fields.Content) == "" {
		return "", "", fmt.Errorf("%w: content is required", ErrValidation)
	}
	content = strings.TrimSpace(s.sanitizer.Sanitize(fields.Content))
	if content == "" {
		return "", "", fmt.Errorf("%w: content has no allowed markup or text", ErrValidation)
	}
	return title, content, nil
}

func (s *Store) newTopicID(topics []Topic) string {
	millis := s.now().UnixMilli()
	for {
		id := customTopicPrefix + strconv.FormatInt(millis, 10)
		if s.topicIndex(topics, id) < 0 {
			return id
		}
		millis++
	}
}

func (s *Store) CreateTopic(ctx context.Context, fields TopicFields) (Topic, error) {
	title, content, err := s.cleanTopic(fields)
	if err != nil {
		return Topic{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topics := append([]Topic{}, s.topics...)
	topic := Topic{ID: s.newTopicID(topics), Title: title, Content: content}
	topics = append(topics, topic)
	if err := s.commitTopics(ctx, topics); err != nil {
		return Topic{}, err
	}
	logger.Info("education topic created", "id", topic.ID)
	return topic, nil
}

func (s *Store) UpdateTopic(ctx context.Context, id string, fields TopicFields) (Topic, error) {
	title, content, err := s.cleanTopic(fields)
	if err != nil {
		return Topic{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.topicIndex(s.topics, id)
	if idx < 0 {
		return Topic{}, fmt.Errorf("topic %q: %w", id, ErrNotFound)
	}
	topics := append([]Topic{}, s.topics...)
	topics[idx].Title = title
	topics[idx].Content = content
	if err := s.commitTopics(ctx, topics); err != nil {
		return Topic{}, err
	}
	logger.Info("education topic updated", "id", id)
	return topics[idx], nil
}

// DeleteTopic removes a custom topic. Seed topics are refused, unknown ids
// report false without error.
func (s *Store) DeleteTopic(ctx context.Context, id string) (bool, error) {
	if IsProtectedTopic(id) {
		return false, fmt.Errorf("topic %q: %w", id, ErrProtectedTopic)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.topicIndex(s.topics, id)
	if idx < 0 {
		return false, nil
	}
	topics := make([]Topic, 0, len(s.topics)-1)
	topics = append(topics, s.topics[:idx]...)
	topics = append(topics, s.topics[idx+1:]...)
	if err := s.commitTopics(ctx, topics); err != nil {
		return false, err
	}
	logger.Info("education topic deleted", "id", id)
	return true, nil
}
