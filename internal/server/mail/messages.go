package mail

import "fmt"

func SendResetLink(sender Sender, email string, link string) error {
	return sender.Send(&Message{
		To:      []string{email},
		Subject: "Password reset",
		Body:    fmt.Sprintf("Open this link to reset your password: %s", link),
	})
}

func SendNewPassword(sender Sender, email string, username string, password string) error {
	return sender.Send(&Message{
		To:      []string{email},
		Subject: "Your new password",
		Body:    fmt.Sprintf("The password for %s is now: %s", username, password),
	})
}
