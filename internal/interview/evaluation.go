package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/prompts"
	"github.com/chenhw7/MoonLight/internal/store"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// GenerateEvaluation produces the post-interview report for a completed
// session. At most one evaluation exists per session: a repeat call returns
// the stored one instead of spending another provider call.
func (s *Service) GenerateEvaluation(ctx context.Context, userID, sessionID uint) (*models.InterviewEvaluation, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusCompleted {
		return nil, fmt.Errorf("%w: evaluation requires a completed session, got %s", ErrInvalidState, session.Status)
	}

	if existing, err := s.store.GetEvaluation(ctx, sessionID); err == nil {
		return existing, nil
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: nothing to evaluate, transcript is empty", ErrInvalidState)
	}

	provider, err := s.registry.New(session.ModelConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	prompt := prompts.BuildEvaluationPrompt(session, messages)
	raw, err := provider.ChatComplete(ctx, []llm.Message{
		{Role: llm.ChatRoleUser, Content: prompt},
	}, llm.OptionsFrom(session.ModelConfig))
	if err != nil {
		s.logger.Error("evaluation completion failed",
			zap.Uint("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}

	evaluation, err := parseEvaluation(session.ModelConfig.Provider, sessionID, raw)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateEvaluation(ctx, evaluation); err != nil {
		return nil, err
	}

	s.logger.Info("evaluation generated",
		zap.Uint("session_id", sessionID),
		zap.Int("overall_score", evaluation.OverallScore))
	return evaluation, nil
}

// GetEvaluation fetches a session's stored evaluation.
func (s *Service) GetEvaluation(ctx context.Context, userID, sessionID uint) (*models.InterviewEvaluation, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	evaluation, err := s.store.GetEvaluation(ctx, sessionID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("%w: no evaluation for session %d", ErrNotFound, sessionID)
		}
		return nil, err
	}
	return evaluation, nil
}

// parseEvaluation extracts the scoring JSON from the model's reply. Models
// sometimes wrap the JSON in markdown fences or prose, so parsing starts at
// the first brace.
func parseEvaluation(providerName string, sessionID uint, raw string) (*models.InterviewEvaluation, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, invalidEvaluation(providerName, "no JSON object in evaluation response")
	}

	doc := gjson.Parse(raw[start : end+1])
	if !doc.IsObject() {
		return nil, invalidEvaluation(providerName, "evaluation response is not a JSON object")
	}

	overall := doc.Get("overall_score")
	if !overall.Exists() {
		return nil, invalidEvaluation(providerName, "evaluation response missing overall_score")
	}

	scores := models.MetaInfo{}
	doc.Get("dimension_scores").ForEach(func(key, value gjson.Result) bool {
		scores[key.String()] = value.String()
		return true
	})
	details := models.MetaInfo{}
	doc.Get("dimension_details").ForEach(func(key, value gjson.Result) bool {
		details[key.String()] = value.String()
		return true
	})

	toList := func(path string) models.JSONList {
		list := models.JSONList{}
		for _, item := range doc.Get(path).Array() {
			list = append(list, item.String())
		}
		return list
	}

	return &models.InterviewEvaluation{
		SessionID:       sessionID,
		OverallScore:    int(overall.Int()),
		DimensionScores: scores,
		Summary:         doc.Get("summary").String(),
		DimensionDetail: details,
		Suggestions:     toList("suggestions"),
		RecommendedQs:   toList("recommended_questions"),
	}, nil
}

func invalidEvaluation(providerName, message string) error {
	return &llm.ProviderError{
		Provider: providerName,
		Code:     llm.ErrCodeInvalidInput,
		Message:  message,
	}
}
