package email

import "fmt"

func WelcomeBody(firstName string) string {
	return fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Your account has been created. You can now sign in to the admin panel.</p>`, firstName)
}

func PasswordResetBody(resetToken string) string {
	return fmt.Sprintf(`<h2>Password Reset</h2>
<p>Use the token below to reset your password. It expires in one hour.</p>
<p><code>%s</code></p>
<p>If you did not request this, ignore this message.</p>`, resetToken)
}

func NotificationBody(title, message string) string {
	return fmt.Sprintf(`<h2>%s</h2><p>%s</p>`, title, message)
}
