package auth

// GenericAuthMessage is shown for provider codes we have no mapping for.
const GenericAuthMessage = "Something went wrong. Please try again."

// providerMessages maps the managed provider's error codes to user-facing
// text. Unknown codes fall back to GenericAuthMessage.
var providerMessages = map[string]string{
	"auth/invalid-email":                             "That email address doesn't look right.",
	"auth/user-disabled":                             "This account has been disabled. Please contact support.",
	"auth/user-not-found":                            "No account found with this email.",
	"auth/wrong-password":                            "Incorrect password. Please try again.",
	"auth/email-already-in-use":                      "An account already exists with this email address.",
	"auth/weak-password":                             "Password should be at least 6 characters.",
	"auth/admin-restricted-operation":                "This operation is restricted to administrators only.",
	"auth/popup-closed-by-user":                      "Login cancelled. Please finish the process in the popup window.",
	"auth/popup-blocked":                             "The login popup was blocked by your browser. Please allow popups for this site.",
	"auth/cancelled-popup-request":                   "Multiple login popups were opened. Only one is allowed at a time.",
	"auth/operation-not-allowed":                     "This sign-in method is not enabled. Please contact the administrator.",
	"auth/auth-domain-config-required":               "Configuration error regarding the auth domain.",
	"auth/unauthorized-domain":                       "This domain is not authorized for authentication.",
	"auth/account-exists-with-different-credential":  "An account already exists with this email. Try signing in with your original provider.",
	"auth/credential-already-in-use":                 "This social account is already linked to another user.",
	"auth/provider-already-linked":                   "This provider is already linked to the current user.",
	"auth/no-such-provider":                          "The user has not linked an account with this provider.",
	"auth/captcha-check-failed":                      "ReCAPTCHA check failed. Please try again.",
	"auth/invalid-phone-number":                      "The phone number is invalid.",
	"auth/missing-phone-number":                      "Phone number is required.",
	"auth/quota-exceeded":                            "SMS quota exceeded. Please try again later.",
	"auth/session-expired":                           "The SMS code session has expired. Please request a new code.",
	"auth/invalid-verification-code":                 "The 6-digit code you entered is incorrect.",
	"auth/invalid-verification-id":                   "The verification ID is invalid.",
	"auth/code-expired":                              "The SMS code has expired. Please request a new one.",
	"auth/network-request-failed":                    "Network error. Please check your internet connection.",
	"auth/too-many-requests":                         "Too many failed attempts. We've temporarily disabled login for this account.",
	"auth/internal-error":                            "A server error occurred. Please try again in a few moments.",
	"auth/timeout":                                   "The operation timed out. Please try again.",
	"auth/expired-action-code":                       "The link has expired. Please request a new one.",
	"auth/invalid-action-code":                       "The link is invalid or has already been used.",
	"auth/user-mismatch":                             "The user credentials do not match the expected user for this action.",
	"auth/requires-recent-login":                     "For security reasons, please log out and log back in before making this change.",
	"auth/user-token-expired":                        "Your session has expired. Please log in again.",
	"auth/user-token-signature-invalid":              "Security token mismatch. Please log in again.",
	"auth/app-not-authorized":                        "This app is not authorized to use authentication with the provided key.",
	"auth/mfa-info-required":                         "Multi-factor authentication is required to continue.",
	"auth/second-factor-already-in-use":              "This second factor is already linked to this account.",
	"auth/argument-error":                            "Invalid configuration or missing fields.",
	"auth/invalid-credential":                        "The supplied credential is malformed or has expired.",
}

// MessageFor translates a provider error code into user-facing text.
func MessageFor(code string) string {
	if msg, ok := providerMessages[code]; ok {
		return msg
	}
	return GenericAuthMessage
}
