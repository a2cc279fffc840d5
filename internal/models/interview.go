package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ModelConfig is the frozen copy of a user's LLM provider settings captured
// when a session is created. Later edits to the user's AIConfig never touch
// an in-progress interview.
type ModelConfig struct {
	Provider    string  `json:"provider"`
	BaseURL     string  `json:"base_url"`
	APIKey      string  `json:"api_key"`
	ChatModel   string  `json:"chat_model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func (c ModelConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ModelConfig) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = ModelConfig{}
		return nil
	}
	return fmt.Errorf("unsupported model config column type %T", value)
}

// MetaInfo is a free-form metadata map stored as JSON, e.g. the transition
// a message triggered.
type MetaInfo map[string]string

func (m MetaInfo) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MetaInfo) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	}
	return fmt.Errorf("unsupported meta info column type %T", value)
}

// MetaTriggeredTransition is the MetaInfo key recording that the tagged AI
// message caused a round transition, with the destination round as value.
const MetaTriggeredTransition = "triggered_transition"

// InterviewSession is one mock-interview attempt. The configuration block is
// immutable after creation; only Status, CurrentRound and EndTime change.
type InterviewSession struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint `gorm:"not null;index" json:"user_id"`
	ResumeID uint `gorm:"not null" json:"resume_id"`

	CompanyName    string `gorm:"size:100;not null" json:"company_name"`
	PositionName   string `gorm:"size:100;not null" json:"position_name"`
	JobDescription string `gorm:"type:text;not null" json:"job_description"`

	RecruitmentType  string `gorm:"size:20;not null" json:"recruitment_type"`
	InterviewMode    string `gorm:"size:50;not null" json:"interview_mode"`
	InterviewerStyle string `gorm:"size:20;not null" json:"interviewer_style"`

	ModelConfig ModelConfig `gorm:"type:text;not null" json:"model_config"`

	Status       string `gorm:"size:20;not null;default:ongoing" json:"status"`
	CurrentRound string `gorm:"size:30;not null;default:opening" json:"current_round"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Messages   []InterviewMessage   `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	Evaluation *InterviewEvaluation `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"evaluation,omitempty"`
}

// Ongoing reports whether the session still accepts turns.
func (s *InterviewSession) Ongoing() bool {
	return s.Status == StatusOngoing
}

// InterviewMessage is one turn in a session's transcript. Messages are
// append-only and ordered by ID; Round records the round that was active
// when the message was produced.
type InterviewMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Round     string    `gorm:"size:30;not null" json:"round"`
	MetaInfo  MetaInfo  `gorm:"type:text" json:"meta_info,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InterviewEvaluation is the post-interview report. At most one exists per
// session; the flow engine only reads it as a precondition check.
type InterviewEvaluation struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID       uint      `gorm:"not null;uniqueIndex" json:"session_id"`
	OverallScore    int       `gorm:"not null" json:"overall_score"`
	DimensionScores MetaInfo  `gorm:"type:text;not null" json:"dimension_scores"`
	Summary         string    `gorm:"type:text;not null" json:"summary"`
	DimensionDetail MetaInfo  `gorm:"type:text;not null" json:"dimension_details"`
	Suggestions     JSONList  `gorm:"type:text;not null" json:"suggestions"`
	RecommendedQs   JSONList  `gorm:"type:text;not null" json:"recommended_questions"`
	CreatedAt       time.Time `json:"created_at"`
}

// JSONList is a string slice stored as a JSON column.
type JSONList []string

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		l = JSONList{}
	}
	return json.Marshal(l)
}

func (l *JSONList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	}
	return fmt.Errorf("unsupported list column type %T", value)
}

// AIConfig is a user's live LLM provider configuration. Sessions copy it
// into their ModelConfig snapshot at creation; they never reference it
// afterwards.
type AIConfig struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null;default:未命名配置" json:"name"`
	IsActive    bool      `gorm:"not null;default:false" json:"is_active"`
	Provider    string    `gorm:"size:50;not null;default:openai-compatible" json:"provider"`
	BaseURL     string    `gorm:"size:500;not null" json:"base_url"`
	APIKey      string    `gorm:"size:500;not null" json:"-"`
	ChatModel   string    `gorm:"size:100;not null;default:gpt-4" json:"chat_model"`
	Temperature float64   `gorm:"not null;default:0.7" json:"temperature"`
	MaxTokens   int       `gorm:"not null;default:4096" json:"max_tokens"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot freezes the config into a session-local copy.
func (c *AIConfig) Snapshot() ModelConfig {
	return ModelConfig{
		Provider:    c.Provider,
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		ChatModel:   c.ChatModel,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}
