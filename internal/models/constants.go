package models

// Message roles
const (
	RoleAI   = "ai"
	RoleUser = "user"
)

// Session statuses
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// Interview rounds, in the order they are played. The sequence is fixed:
// a session only ever moves forward through it.
const (
	RoundOpening   = "opening"
	RoundSelfIntro = "self_intro"
	RoundQA        = "qa"
	RoundReverseQA = "reverse_qa"
	RoundClosing   = "closing"
)

// InterviewRounds is the ordered round sequence.
var InterviewRounds = []string{
	RoundOpening,
	RoundSelfIntro,
	RoundQA,
	RoundReverseQA,
	RoundClosing,
}

// RoundDisplayNames maps round keys to user-facing labels.
var RoundDisplayNames = map[string]string{
	RoundOpening:   "开场白",
	RoundSelfIntro: "自我介绍",
	RoundQA:        "核心问答",
	RoundReverseQA: "反问环节",
	RoundClosing:   "结束",
}

// Recruitment categories
const (
	RecruitmentCampus = "campus"
	RecruitmentSocial = "social"
)

var RecruitmentTypes = map[string]string{
	RecruitmentCampus: "校招",
	RecruitmentSocial: "社招",
}

// InterviewModes lists the valid interview modes per recruitment category.
var InterviewModes = map[string]map[string]string{
	RecruitmentCampus: {
		"basic_knowledge":   "基础知识问答",
		"project_deep_dive": "项目/实习深挖",
		"coding":            "编程题",
	},
	RecruitmentSocial: {
		"technical_deep_dive": "技术深挖",
		"technical_qa":        "技术问答",
		"scenario_design":     "场景设计",
	},
}

// InterviewerStyles lists the valid interviewer personas.
var InterviewerStyles = map[string]string{
	"strict":   "严格专业型",
	"gentle":   "温和引导型",
	"pressure": "压力测试型",
}

func ValidStatus(status string) bool {
	switch status {
	case StatusOngoing, StatusCompleted, StatusAborted:
		return true
	}
	return false
}

func ValidRound(round string) bool {
	for _, r := range InterviewRounds {
		if r == round {
			return true
		}
	}
	return false
}

func ValidRecruitmentType(t string) bool {
	_, ok := RecruitmentTypes[t]
	return ok
}

// ValidInterviewMode reports whether mode belongs to the given recruitment
// category.
func ValidInterviewMode(recruitmentType, mode string) bool {
	modes, ok := InterviewModes[recruitmentType]
	if !ok {
		return false
	}
	_, ok = modes[mode]
	return ok
}

func ValidInterviewerStyle(style string) bool {
	_, ok := InterviewerStyles[style]
	return ok
}
