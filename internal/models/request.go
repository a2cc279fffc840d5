package models

import "strings"

// CreateSessionRequest starts a new interview session.
type CreateSessionRequest struct {
	ResumeID         uint   `json:"resume_id"`
	CompanyName      string `json:"company_name"`
	PositionName     string `json:"position_name"`
	JobDescription   string `json:"job_description"`
	RecruitmentType  string `json:"recruitment_type"`
	InterviewMode    string `json:"interview_mode"`
	InterviewerStyle string `json:"interviewer_style"`
}

// implements the Validator interface
func (r *CreateSessionRequest) Validate() error {
	if r.ResumeID == 0 {
		return &ErrorResponse{Code: "missing_resume_id", Message: "resume_id field is required"}
	}
	if strings.TrimSpace(r.CompanyName) == "" {
		return &ErrorResponse{Code: "missing_company_name", Message: "company_name field is required"}
	}
	if len(r.CompanyName) > 100 {
		return &ErrorResponse{Code: "invalid_company_name", Message: "company_name must be at most 100 characters"}
	}
	if strings.TrimSpace(r.PositionName) == "" {
		return &ErrorResponse{Code: "missing_position_name", Message: "position_name field is required"}
	}
	if len(r.PositionName) > 100 {
		return &ErrorResponse{Code: "invalid_position_name", Message: "position_name must be at most 100 characters"}
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return &ErrorResponse{Code: "missing_job_description", Message: "job_description field is required"}
	}
	if !ValidRecruitmentType(r.RecruitmentType) {
		return &ErrorResponse{Code: "invalid_recruitment_type", Message: "recruitment_type must be one of: campus, social"}
	}
	if !ValidInterviewMode(r.RecruitmentType, r.InterviewMode) {
		return &ErrorResponse{Code: "invalid_interview_mode", Message: "interview_mode is not valid for the given recruitment_type"}
	}
	if !ValidInterviewerStyle(r.InterviewerStyle) {
		return &ErrorResponse{Code: "invalid_interviewer_style", Message: "interviewer_style must be one of: strict, gentle, pressure"}
	}
	return nil
}

// SendMessageRequest is one candidate turn, used by both the plain and the
// streaming endpoint.
type SendMessageRequest struct {
	Content   string `json:"content"`
	RequestID string `json:"request_id"`
}

// implements the Validator interface
func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &ErrorResponse{Code: "missing_content", Message: "content field is required"}
	}
	return nil
}
