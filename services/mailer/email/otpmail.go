package email

import (
	"fmt"

	"novamailer/services/mailer/models"
)

var purposeTitles = map[models.OTPPurpose]string{
	models.OTPPurposeRegistration:  "Email Verification",
	models.OTPPurposeLogin:         "Login Verification",
	models.OTPPurposePasswordReset: "Password Reset",
}

// OTPSubject returns the subject line for a one-time-code email
func OTPSubject(purpose models.OTPPurpose) string {
	return fmt.Sprintf("%s - Your OTP Code", purposeTitle(purpose))
}

// OTPBody returns the HTML body for a one-time-code email
func OTPBody(code string, purpose models.OTPPurpose) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #4F46E5; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0;">
    <h2 style="margin: 0;">%s</h2>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 8px 8px;">
    <p style="font-size: 16px; color: #374151;">Your verification code is:</p>
    <div style="background: white; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0;">
      <h1 style="margin: 0; letter-spacing: 8px; color: #4F46E5; font-size: 32px;">%s</h1>
    </div>
    <p style="font-size: 14px; color: #6b7280;">This code will expire in <strong>10 minutes</strong>.</p>
    <p style="font-size: 14px; color: #6b7280;">If you didn't request this code, please ignore this email.</p>
  </div>
</body>
</html>`, purposeTitle(purpose), code)
}

func purposeTitle(purpose models.OTPPurpose) string {
	if title, ok := purposeTitles[purpose]; ok {
		return title
	}
	return "Verification"
}
