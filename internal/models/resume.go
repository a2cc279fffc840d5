package models

import "time"

// Resume and its sub-collections are read-only here: the prompt assembler
// renders them into the system instruction. Writes belong to the resume
// service, not this one.
type Resume struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	ResumeType     string    `gorm:"size:20;not null" json:"resume_type"`
	Title          string    `gorm:"size:100" json:"title"`
	Status         string    `gorm:"size:20;default:draft" json:"status"`
	FullName       string    `gorm:"size:50;not null" json:"full_name"`
	Phone          string    `gorm:"size:20" json:"phone"`
	Email          string    `gorm:"size:100" json:"email"`
	TargetPosition string    `gorm:"size:200" json:"target_position"`
	SelfEvaluation string    `gorm:"type:text" json:"self_evaluation"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Educations      []Education      `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"educations,omitempty"`
	WorkExperiences []WorkExperience `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"work_experiences,omitempty"`
	Projects        []Project        `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"projects,omitempty"`
	Skills          []Skill          `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"skills,omitempty"`
}

type Education struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ResumeID   uint   `gorm:"not null;index" json:"resume_id"`
	SchoolName string `gorm:"size:100;not null" json:"school_name"`
	Degree     string `gorm:"size:20;not null" json:"degree"`
	Major      string `gorm:"size:100;not null" json:"major"`
	SortOrder  int    `gorm:"default:0" json:"sort_order"`
}

type WorkExperience struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ResumeID     uint   `gorm:"not null;index" json:"resume_id"`
	CompanyName  string `gorm:"size:100;not null" json:"company_name"`
	Position     string `gorm:"size:100;not null" json:"position"`
	Description  string `gorm:"type:text" json:"description"`
	Achievements string `gorm:"type:text" json:"achievements"`
	SortOrder    int    `gorm:"default:0" json:"sort_order"`
}

type Project struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ResumeID    uint   `gorm:"not null;index" json:"resume_id"`
	ProjectName string `gorm:"size:100;not null" json:"project_name"`
	Role        string `gorm:"size:100" json:"role"`
	Description string `gorm:"type:text;not null" json:"description"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}

type Skill struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ResumeID    uint   `gorm:"not null;index" json:"resume_id"`
	SkillName   string `gorm:"size:50;not null" json:"skill_name"`
	Proficiency string `gorm:"size:20;not null" json:"proficiency"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}
