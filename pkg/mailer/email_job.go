package mailer

import "github.com/oksasatya/go-user-registration/pkg/mailer/templates"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewWelcomeJob builds the job sent after a successful registration.
func NewWelcomeJob(to, name, appName string) EmailJob {
	return EmailJob{
		To:       to,
		Template: templates.Welcome,
		Data: map[string]any{
			"Name":    name,
			"Email":   to,
			"AppName": appName,
		},
	}
}

// Content resolves the subject and bodies to send for this job.
func (j EmailJob) Content() (subject, text, html string, err error) {
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	return templates.Render(j.Template, templates.FromMap(j.Data))
}
