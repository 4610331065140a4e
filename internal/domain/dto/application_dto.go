package dto

import (
	"regexp"
	"strings"

	"vantahire/internal/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9+()\-. ]{10,15}$`)

// ApplicationRequest is bound from a multipart form; the resume file travels separately.
type ApplicationRequest struct {
	Name        string `form:"name" json:"name"`
	Email       string `form:"email" json:"email"`
	Phone       string `form:"phone" json:"phone"`
	CoverLetter string `form:"coverLetter" json:"coverLetter"`
	ResumeURL   string `form:"resumeUrl" json:"resumeUrl"`
}

func (req *ApplicationRequest) Normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.CoverLetter = strings.TrimSpace(req.CoverLetter)
	req.ResumeURL = strings.TrimSpace(req.ResumeURL)
}

func (req *ApplicationRequest) Validate() error {
	b := domain.NewValidationBuilder()
	b.String("name", req.Name).NotEmpty().MaxLength(50).SecureSanitize()
	b.String("email", req.Email).NotEmpty().Email()
	b.String("phone", req.Phone).NotEmpty().Pattern(phonePattern, "phone must be 10-15 characters")
	b.String("coverLetter", req.CoverLetter).MaxLength(2000).SecureSanitize()
	return b.Build()
}

func (req *ApplicationRequest) ToApplication(jobID int64, resumeURL string) *domain.Application {
	return &domain.Application{
		JobID:       jobID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CoverLetter: req.CoverLetter,
		ResumeURL:   resumeURL,
		Status:      domain.ApplicationPending,
	}
}

type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,app_status"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type ContactRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=20"`
	Company  string `json:"company" validate:"max=100"`
	Location string `json:"location" validate:"max=100"`
	Message  string `json:"message" validate:"required,max=5000"`
}

func (req *ContactRequest) ToSubmission() *domain.ContactSubmission {
	return &domain.ContactSubmission{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Company:  strings.TrimSpace(req.Company),
		Location: strings.TrimSpace(req.Location),
		Message:  strings.TrimSpace(req.Message),
	}
}
