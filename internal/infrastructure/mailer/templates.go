package mailer

import "html/template"

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>Verify your email</h2>
  <p>Hi {{.Name}},</p>
  <p>Use the code below to finish creating your account. It expires in 15 minutes.</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>If you did not sign up, you can ignore this email.</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("passwordReset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>Reset your password</h2>
  <p>We received a request to reset your password. The link below is valid for 15 minutes.</p>
  <p><a href="{{.ResetURL}}">Reset password</a></p>
  <p>If you did not request this, no action is needed.</p>
</body>
</html>`))

var adminInviteTmpl = template.Must(template.New("adminInvite").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>Administrator invitation</h2>
  <p>You have been invited to become a platform administrator. The invitation
  is valid for 24 hours and can be used once.</p>
  <p><a href="{{.AcceptURL}}">Accept invitation</a></p>
  <p>If you were not expecting this, you can ignore this email.</p>
</body>
</html>`))

var interviewTmpl = template.Must(template.New("interview").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>Interview scheduled</h2>
  <p>Hi {{.Name}},</p>
  <p>Your interview for <strong>{{.JobTitle}}</strong> has been scheduled.</p>
  <p><strong>When:</strong> {{.Date}}</p>
  {{if .Link}}<p><strong>Where:</strong> <a href="{{.Link}}">{{.Link}}</a></p>{{end}}
  <p>Good luck!</p>
</body>
</html>`))
