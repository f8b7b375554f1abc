package service

import "fmt"

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

An administrator created an account for you. Sign in to start planning your objectives:
%s

Your administrator will share your initial password with you. Please change it after your first sign in.

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}

func passwordChangedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s password was changed", appName)
	body := fmt.Sprintf(`Hi %s,

The password of your %s account was just changed.

If you didn't expect this, contact your administrator immediately.

Best,
The %s Team`, name, appName, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been permanently deleted from %s.

Your profile, objectives, ledger entries, milestones and documents have been removed.

If you didn't expect this, please contact your administrator.

Best,
The %s Team`, name, appName, appName)

	return subject, body
}
