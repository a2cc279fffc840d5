// Package flow implements the round state machine of a mock interview:
// opening -> self_intro -> qa -> reverse_qa -> closing, fixed order, no
// skipping. A round advances either because the AI's reply contains one of
// that round's cue phrases, or because the candidate reply count hit the
// round's hard cap. Cue phrases are exported so the prompt templates embed
// the exact strings the detector looks for.
package flow

import (
	"strings"

	"github.com/chenhw7/MoonLight/internal/models"
)

// Cue phrases the prompt instructs the AI to emit when it is ready to move
// on. Keep these in sync with nothing: the templates reference them through
// CueFor, so there is a single source of truth.
const (
	CueOpening   = "请开始你的自我介绍"
	CueSelfIntro = "接下来我们进入技术问答环节"
	CueQA        = "你有什么问题要问我吗"
	CueReverseQA = "今天的面试就到这里，感谢你的参与"
)

// Envelope bounds candidate replies per round: Min is the readiness
// threshold reported by Progress, Max is the hard cap forcing a transition.
type Envelope struct {
	Min int
	Max int
}

var roundEnvelopes = map[string]Envelope{
	models.RoundOpening:   {Min: 0, Max: 0},
	models.RoundSelfIntro: {Min: 1, Max: 3},
	models.RoundQA:        {Min: 5, Max: 10},
	models.RoundReverseQA: {Min: 0, Max: 5},
	models.RoundClosing:   {Min: 0, Max: 0},
}

// transitionMarkers lists, per round, every substring whose presence in the
// AI reply signals a voluntary transition. The [NEXT:x] tags are a machine
// fallback the prompt also allows.
var transitionMarkers = map[string][]string{
	models.RoundOpening: {
		"[NEXT:self_intro]",
		"请开始自我介绍",
		CueOpening,
		"请先介绍一下",
		"请先介绍",
	},
	models.RoundSelfIntro: {
		"[NEXT:qa]",
		CueSelfIntro,
		"接下来进入技术问答",
		"让我们开始技术问题",
		"进入技术问答",
		"开始技术问题",
	},
	models.RoundQA: {
		"[NEXT:reverse_qa]",
		CueQA,
		"你有什么问题想问",
		"反问环节",
		"你有什么想了解",
	},
	models.RoundReverseQA: {
		"[NEXT:closing]",
		"面试到此结束",
		CueReverseQA,
		"今天的面试就到这里",
		"面试结束",
		"感谢你的参与",
	},
}

// EnvelopeFor returns the reply-count envelope of a round. Unknown rounds
// get a zero envelope.
func EnvelopeFor(round string) Envelope {
	return roundEnvelopes[round]
}

// CueFor returns the primary cue phrase the AI should emit to leave the
// given round, or "" for the terminal round.
func CueFor(round string) string {
	switch round {
	case models.RoundOpening:
		return CueOpening
	case models.RoundSelfIntro:
		return CueSelfIntro
	case models.RoundQA:
		return CueQA
	case models.RoundReverseQA:
		return CueReverseQA
	}
	return ""
}

// RoundIndex returns the position of round in the fixed sequence, or -1.
func RoundIndex(round string) int {
	for i, r := range models.InterviewRounds {
		if r == round {
			return i
		}
	}
	return -1
}

// NextRound returns the round following the given one, or "" when the round
// is terminal or unknown.
func NextRound(round string) string {
	idx := RoundIndex(round)
	if idx < 0 || idx >= len(models.InterviewRounds)-1 {
		return ""
	}
	return models.InterviewRounds[idx+1]
}

// IsTerminalRound reports whether no further transition exists.
func IsTerminalRound(round string) bool {
	return RoundIndex(round) == len(models.InterviewRounds)-1
}

// ShouldTransition decides whether the session should advance, given the
// full message log and the AI's latest reply (may be empty). It never
// mutates anything. Cue phrases win over counting; the max cap is the
// safety net for an AI that never emits its cue.
func ShouldTransition(session *models.InterviewSession, messages []models.InterviewMessage, aiReply string) (bool, string) {
	current := session.CurrentRound

	idx := RoundIndex(current)
	if idx < 0 {
		return false, current
	}
	if idx >= len(models.InterviewRounds)-1 {
		return false, current
	}
	next := models.InterviewRounds[idx+1]

	if aiReply != "" {
		for _, marker := range transitionMarkers[current] {
			if strings.Contains(aiReply, marker) {
				return true, next
			}
		}
	}

	userCount := countRoundMessages(messages, current, models.RoleUser)
	env := roundEnvelopes[current]
	if env.Max > 0 && userCount >= env.Max {
		return true, next
	}

	return false, current
}

// Progress reports the session's position inside its current round. Purely
// informational: CanTransition is the manual-advance readiness signal, never
// a transition trigger by itself.
func Progress(session *models.InterviewSession, messages []models.InterviewMessage) models.RoundProgress {
	current := session.CurrentRound
	idx := RoundIndex(current)
	if idx < 0 {
		idx = 0
	}

	userCount := countRoundMessages(messages, current, models.RoleUser)
	aiCount := countRoundMessages(messages, current, models.RoleAI)
	env := roundEnvelopes[current]

	var progress int
	if env.Max > 0 {
		progress = userCount * 100 / env.Max
		if progress > 100 {
			progress = 100
		}
	} else if aiCount > 0 {
		progress = 100
	}

	return models.RoundProgress{
		CurrentRound:        current,
		CurrentRoundDisplay: displayName(current),
		RoundIndex:          idx + 1,
		TotalRounds:         len(models.InterviewRounds),
		UserMessages:        userCount,
		AIMessages:          aiCount,
		MinMessages:         env.Min,
		MaxMessages:         env.Max,
		Progress:            progress,
		CanTransition:       userCount >= env.Min,
	}
}

func displayName(round string) string {
	if name, ok := models.RoundDisplayNames[round]; ok {
		return name
	}
	return round
}

func countRoundMessages(messages []models.InterviewMessage, round, role string) int {
	n := 0
	for _, msg := range messages {
		if msg.Role == role && msg.Round == round {
			n++
		}
	}
	return n
}
