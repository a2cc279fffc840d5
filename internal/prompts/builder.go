package prompts

import (
	"fmt"
	"strings"

	"github.com/chenhw7/MoonLight/internal/flow"
	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
)

// BuildSystemPrompt assembles the full system instruction for one turn:
// role framing, persona, mode line, job description, resume summary, the
// current round's instruction block and a progress line.
func (m *Manager) BuildSystemPrompt(session *models.InterviewSession, resume *models.Resume) string {
	recruitment := models.RecruitmentTypes[session.RecruitmentType]
	roundIndex := flow.RoundIndex(session.CurrentRound)
	if roundIndex < 0 {
		roundIndex = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "你是一位经验丰富的%s技术面试官，正在面试%s岗位。\n\n",
		session.CompanyName, session.PositionName)

	fmt.Fprintf(&b, "## 面试信息\n- 招聘类型: %s\n- 面试模式: %s\n- 面试官风格: %s\n\n",
		recruitment, m.ModeInstruction(session.InterviewMode), session.InterviewerStyle)

	fmt.Fprintf(&b, "## 岗位描述\n%s\n\n", session.JobDescription)

	fmt.Fprintf(&b, "## 候选人简历\n%s\n\n", RenderResumeSummary(resume))

	fmt.Fprintf(&b, "## 你的角色设定\n%s\n\n", m.Persona(session.InterviewerStyle))

	b.WriteString("## 要求\n")
	b.WriteString("- 每次只问一个问题\n")
	b.WriteString("- 根据候选人回答进行追问\n")
	b.WriteString("- 保持面试官角色，不要跳出角色\n")
	b.WriteString("- 回答要简洁，不要长篇大论\n\n")

	fmt.Fprintf(&b, "## 当前轮次指令\n%s\n\n", m.RoundInstruction(session.CurrentRound))

	fmt.Fprintf(&b, "## 轮次进度\n当前是第 %d / %d 轮\n",
		roundIndex+1, len(models.InterviewRounds))

	return b.String()
}

// RenderResumeSummary flattens a resume into the bullet text injected into
// the system prompt. Deterministic; a resume with no sub-collections still
// yields at least the name line.
func RenderResumeSummary(resume *models.Resume) string {
	parts := []string{"姓名: " + resume.FullName}
	if resume.TargetPosition != "" {
		parts = append(parts, "求职意向: "+resume.TargetPosition)
	}

	if len(resume.Educations) > 0 {
		parts = append(parts, "", "教育经历:")
		for _, edu := range resume.Educations {
			parts = append(parts, fmt.Sprintf("- %s, %s, %s", edu.SchoolName, edu.Major, edu.Degree))
		}
	}

	if len(resume.WorkExperiences) > 0 {
		parts = append(parts, "", "工作经历:")
		for _, work := range resume.WorkExperiences {
			parts = append(parts, fmt.Sprintf("- %s, %s", work.CompanyName, work.Position))
			if work.Achievements != "" {
				parts = append(parts, "  成果: "+work.Achievements)
			}
		}
	}

	if len(resume.Projects) > 0 {
		parts = append(parts, "", "项目经历:")
		for _, proj := range resume.Projects {
			parts = append(parts, fmt.Sprintf("- %s: %s", proj.ProjectName, proj.Description))
		}
	}

	if len(resume.Skills) > 0 {
		parts = append(parts, "", "技能:")
		for _, skill := range resume.Skills {
			parts = append(parts, fmt.Sprintf("- %s (%s)", skill.SkillName, skill.Proficiency))
		}
	}

	return strings.Join(parts, "\n")
}

// BuildChatMessages maps the system prompt and the stored transcript onto
// the provider wire format, preserving order. History is never truncated
// here; trimming long transcripts is the provider's concern.
func BuildChatMessages(systemPrompt string, history []models.InterviewMessage) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.ChatRoleSystem, Content: systemPrompt})

	for _, msg := range history {
		role := llm.ChatRoleUser
		if msg.Role == models.RoleAI {
			role = llm.ChatRoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	return messages
}

// BuildEvaluationPrompt renders the post-interview scoring prompt over the
// full transcript.
func BuildEvaluationPrompt(session *models.InterviewSession, messages []models.InterviewMessage) string {
	conversation := make([]string, 0, len(messages))
	for _, msg := range messages {
		speaker := "候选人"
		if msg.Role == models.RoleAI {
			speaker = "面试官"
		}
		conversation = append(conversation, speaker+": "+msg.Content)
	}

	return fmt.Sprintf(`请对以下面试进行评价：

## 面试信息
- 岗位: %s
- 招聘类型: %s
- 面试模式: %s

## 完整对话记录
%s

## 评价要求
请从以下维度进行评价（每项 0-100 分）：
1. communication: 沟通能力 - 表达清晰度、逻辑性
2. technical_depth: 技术深度 - 知识掌握程度、原理理解
3. project_experience: 项目经验 - 项目描述、技术亮点
4. adaptability: 应变能力 - 追问回答、思维灵活性
5. job_match: 岗位匹配度 - 与目标岗位的匹配程度

请按以下 JSON 格式输出：
{
  "overall_score": 85,
  "dimension_scores": {"communication": 85, "technical_depth": 78, "project_experience": 82, "adaptability": 80, "job_match": 88},
  "summary": "总体评价...",
  "dimension_details": {"communication": "详细评价...", "technical_depth": "详细评价...", "project_experience": "详细评价...", "adaptability": "详细评价...", "job_match": "详细评价..."},
  "suggestions": ["建议1", "建议2"],
  "recommended_questions": ["推荐练习1"]
}

注意：只输出 JSON，不要输出其他内容。
`, session.PositionName, models.RecruitmentTypes[session.RecruitmentType],
		session.InterviewMode, strings.Join(conversation, "\n"))
}
