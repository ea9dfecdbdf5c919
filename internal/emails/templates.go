package emails

import (
	"fmt"
	"html/template"
	"strings"
)

// Rendered is a ready-to-send subject and HTML body pair.
type Rendered struct {
	Subject string
	HTML    string
}

// WelcomeData feeds the welcome template.
type WelcomeData struct {
	DisplayName string
}

// ReminderData feeds the trial reminder template. The same template serves
// the scheduled dispatcher and any interactive resend path.
type ReminderData struct {
	ServiceName   string
	DaysRemaining int
	EndDate       string
	Cost          string
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1f2430;">
    <h1>Welcome to Trial Sentinel{{if .DisplayName}}, {{.DisplayName}}{{end}}!</h1>
    <p>You're all set. Add the free trials you sign up for and we'll keep an
    eye on the clock so you never get charged for something you meant to
    cancel.</p>
    <p>A reminder lands in your inbox 7 days and again 1 day before each
    trial ends.</p>
    <p>Happy saving,<br>The Trial Sentinel team</p>
  </body>
</html>`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1f2430;">
    <h1>Your {{.ServiceName}} trial ends {{if eq .DaysRemaining 1}}tomorrow{{else}}in {{.DaysRemaining}} days{{end}}</h1>
    <p>The free trial wraps up on {{.EndDate}}.{{if .Cost}} After that you'll
    be billed {{.Cost}}.{{end}}</p>
    <p>Decide now: keep it if you love it, cancel it if you don't. Either
    way, mark it in your dashboard so the countdown stops.</p>
    <p>The Trial Sentinel team</p>
  </body>
</html>`))

// RenderWelcome produces the welcome email for a new user.
func RenderWelcome(data WelcomeData) (Rendered, error) {
	var body strings.Builder
	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return Rendered{}, fmt.Errorf("render welcome template: %w", err)
	}
	return Rendered{
		Subject: "Welcome to Trial Sentinel",
		HTML:    body.String(),
	}, nil
}

// RenderReminder produces the countdown reminder for a trial.
func RenderReminder(data ReminderData) (Rendered, error) {
	var body strings.Builder
	if err := reminderTemplate.Execute(&body, data); err != nil {
		return Rendered{}, fmt.Errorf("render reminder template: %w", err)
	}
	subject := fmt.Sprintf("Your %s trial ends in %d days", data.ServiceName, data.DaysRemaining)
	if data.DaysRemaining == 1 {
		subject = fmt.Sprintf("Your %s trial ends tomorrow", data.ServiceName)
	}
	return Rendered{
		Subject: subject,
		HTML:    body.String(),
	}, nil
}
