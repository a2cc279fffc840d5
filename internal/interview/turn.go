package interview

import (
	"context"
	"fmt"

	"github.com/chenhw7/MoonLight/internal/flow"
	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/prompts"

	"go.uber.org/zap"
)

// turnInput is everything a turn needs before calling the provider. It is
// assembled once so the streaming and non-streaming paths stay in step.
type turnInput struct {
	session  *models.InterviewSession
	userMsg  *models.InterviewMessage
	messages []models.InterviewMessage // transcript including userMsg
	chat     []llm.Message
	provider llm.Provider
	opts     llm.Options
}

// PrecheckTurn verifies the session can accept a turn, without any side
// effect. Transports that cannot change their status code once the stream
// is open call it before committing to one.
func (s *Service) PrecheckTurn(ctx context.Context, userID, sessionID uint) error {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !session.Ongoing() {
		return fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
	}
	return nil
}

// prepareTurn validates the session, commits the user message and builds
// the provider call. The user message stays committed even when the
// provider later fails: the candidate said it, the transcript keeps it.
func (s *Service) prepareTurn(ctx context.Context, userID, sessionID uint, req *models.SendMessageRequest) (*turnInput, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Ongoing() {
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
	}

	resume, err := s.store.GetResume(ctx, session.ResumeID)
	if err != nil {
		return nil, err
	}

	history, err := s.store.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.InterviewMessage{
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   req.Content,
		Round:     session.CurrentRound,
	}
	if req.RequestID != "" {
		userMsg.MetaInfo = models.MetaInfo{"request_id": req.RequestID}
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}
	messages := append(history, *userMsg)

	provider, err := s.registry.New(session.ModelConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	systemPrompt := s.prompts.BuildSystemPrompt(session, resume)
	return &turnInput{
		session:  session,
		userMsg:  userMsg,
		messages: messages,
		chat:     prompts.BuildChatMessages(systemPrompt, messages),
		provider: provider,
		opts:     llm.OptionsFrom(session.ModelConfig),
	}, nil
}

// persistReply appends the AI reply, applies the transition the flow engine
// decided on, and saves the session. It runs against whatever store it is
// given, so the streaming path can call it inside a fresh unit of work.
func persistReply(ctx context.Context, st replyStore, session *models.InterviewSession, aiReply string) (*models.InterviewMessage, bool, string, error) {
	messages, err := st.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, false, "", err
	}

	transition, next := flow.ShouldTransition(session, messages, aiReply)

	aiMsg := &models.InterviewMessage{
		SessionID: session.ID,
		Role:      models.RoleAI,
		Content:   aiReply,
		Round:     session.CurrentRound,
	}
	if transition {
		aiMsg.MetaInfo = models.MetaInfo{models.MetaTriggeredTransition: next}
	}
	if err := st.AppendMessage(ctx, aiMsg); err != nil {
		return nil, false, "", err
	}

	if transition {
		session.CurrentRound = next
		if err := st.SaveSession(ctx, session); err != nil {
			return nil, false, "", err
		}
	}
	return aiMsg, transition, next, nil
}

// replyStore is the slice of the store persistReply touches.
type replyStore interface {
	ListMessages(ctx context.Context, sessionID uint) ([]models.InterviewMessage, error)
	AppendMessage(ctx context.Context, message *models.InterviewMessage) error
	SaveSession(ctx context.Context, session *models.InterviewSession) error
}

// SendMessage runs one non-streaming turn: commit the candidate's message,
// get the interviewer's reply, persist it and apply any round transition.
func (s *Service) SendMessage(ctx context.Context, userID, sessionID uint, req *models.SendMessageRequest) (*models.TurnResponse, error) {
	turn, err := s.prepareTurn(ctx, userID, sessionID, req)
	if err != nil {
		return nil, err
	}

	reply, err := turn.provider.ChatComplete(ctx, turn.chat, turn.opts)
	if err != nil {
		s.logger.Error("provider completion failed",
			zap.Uint("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}

	aiMsg, transition, next, err := persistReply(ctx, s.store, turn.session, reply)
	if err != nil {
		return nil, err
	}

	resp := &models.TurnResponse{Message: *aiMsg, Transition: transition}
	if transition {
		resp.NextRound = &next
		s.logger.Info("round transition",
			zap.Uint("session_id", sessionID),
			zap.String("next_round", next))
	}
	return resp, nil
}
