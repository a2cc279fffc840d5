package prompts

import (
	"strings"
	"testing"

	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
)

func testSession() *models.InterviewSession {
	return &models.InterviewSession{
		ID:               1,
		CompanyName:      "字节跳动",
		PositionName:     "后端开发工程师",
		JobDescription:   "负责推荐系统后端服务的设计与开发。",
		RecruitmentType:  models.RecruitmentCampus,
		InterviewMode:    "basic_knowledge",
		InterviewerStyle: "gentle",
		Status:           models.StatusOngoing,
		CurrentRound:     models.RoundQA,
	}
}

func testResume() *models.Resume {
	return &models.Resume{
		FullName:       "张三",
		TargetPosition: "后端开发",
		Educations: []models.Education{
			{SchoolName: "浙江大学", Major: "计算机科学与技术", Degree: "本科"},
		},
		WorkExperiences: []models.WorkExperience{
			{CompanyName: "某互联网公司", Position: "后端实习生", Achievements: "接口耗时下降 40%"},
		},
		Projects: []models.Project{
			{ProjectName: "秒杀系统", Description: "高并发下单链路"},
		},
		Skills: []models.Skill{
			{SkillName: "Go", Proficiency: "熟练"},
		},
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	session := testSession()
	prompt := m.BuildSystemPrompt(session, testResume())

	for _, want := range []string{
		"字节跳动",
		"后端开发工程师",
		"校招",
		"负责推荐系统后端服务的设计与开发。",
		"张三",
		m.Persona("gentle"),
		m.RoundInstruction(models.RoundQA),
		"当前是第 3 / 5 轮",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("system prompt missing %q\nprompt:\n%s", want, prompt)
		}
	}
}

func TestRenderResumeSummaryEmptyResume(t *testing.T) {
	summary := RenderResumeSummary(&models.Resume{FullName: "李四"})
	if summary == "" {
		t.Fatalf("summary of an empty resume must not be empty")
	}
	if !strings.Contains(summary, "姓名: 李四") {
		t.Fatalf("summary must contain the name line, got %q", summary)
	}
	for _, section := range []string{"教育经历", "工作经历", "项目经历", "技能"} {
		if strings.Contains(summary, section) {
			t.Fatalf("empty resume must not render section %q", section)
		}
	}
}

func TestRenderResumeSummarySections(t *testing.T) {
	summary := RenderResumeSummary(testResume())
	for _, want := range []string{
		"姓名: 张三",
		"求职意向: 后端开发",
		"- 浙江大学, 计算机科学与技术, 本科",
		"- 某互联网公司, 后端实习生",
		"  成果: 接口耗时下降 40%",
		"- 秒杀系统: 高并发下单链路",
		"- Go (熟练)",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q\nsummary:\n%s", want, summary)
		}
	}
}

func TestBuildChatMessages(t *testing.T) {
	history := []models.InterviewMessage{
		{Role: models.RoleAI, Content: "你好，欢迎参加面试。", Round: models.RoundOpening},
		{Role: models.RoleUser, Content: "面试官你好。", Round: models.RoundOpening},
		{Role: models.RoleAI, Content: "请开始你的自我介绍。", Round: models.RoundOpening},
	}

	messages := BuildChatMessages("system text", history)
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[0].Role != llm.ChatRoleSystem || messages[0].Content != "system text" {
		t.Fatalf("first message must be the system prompt, got %+v", messages[0])
	}
	wantRoles := []string{llm.ChatRoleAssistant, llm.ChatRoleUser, llm.ChatRoleAssistant}
	for i, role := range wantRoles {
		if messages[i+1].Role != role {
			t.Fatalf("message %d: expected role %s, got %s", i+1, role, messages[i+1].Role)
		}
		if messages[i+1].Content != history[i].Content {
			t.Fatalf("message %d content reordered", i+1)
		}
	}
}

func TestBuildEvaluationPrompt(t *testing.T) {
	session := testSession()
	messages := []models.InterviewMessage{
		{Role: models.RoleAI, Content: "讲讲 TCP 三次握手。", Round: models.RoundQA},
		{Role: models.RoleUser, Content: "第一次……", Round: models.RoundQA},
	}

	prompt := BuildEvaluationPrompt(session, messages)
	for _, want := range []string{
		"后端开发工程师",
		"面试官: 讲讲 TCP 三次握手。",
		"候选人: 第一次……",
		"overall_score",
		"dimension_scores",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("evaluation prompt missing %q", want)
		}
	}
}
