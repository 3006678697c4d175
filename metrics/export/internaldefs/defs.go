package internaldefs

import (
	grcAuth "github.com/MrEthical07/grcAuth"
)

// CounterDef defines a public type used by grcAuth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   grcAuth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: grcAuth.MetricLoginSuccess, Name: "grcauth_login_success_total", Help: "Successful login attempts."},
	{ID: grcAuth.MetricLoginFailure, Name: "grcauth_login_failure_total", Help: "Failed login attempts."},
	{ID: grcAuth.MetricLoginDisabled, Name: "grcauth_login_disabled_total", Help: "Logins rejected because password login is disabled for the tenant."},
	{ID: grcAuth.MetricPasswordExpiredLogin, Name: "grcauth_password_expired_login_total", Help: "Logins refused because the password expired."},
	{ID: grcAuth.MetricMFARequired, Name: "grcauth_mfa_required_total", Help: "Login flows requiring MFA step-up."},
	{ID: grcAuth.MetricOTPIssued, Name: "grcauth_otp_issued_total", Help: "Issued email OTP challenges."},
	{ID: grcAuth.MetricOTPVerified, Name: "grcauth_otp_verified_total", Help: "Successful OTP verifications."},
	{ID: grcAuth.MetricOTPMismatch, Name: "grcauth_otp_mismatch_total", Help: "OTP verifications with a wrong code."},
	{ID: grcAuth.MetricOTPAttemptsExceeded, Name: "grcauth_otp_attempts_exceeded_total", Help: "OTP records invalidated by the attempt cap."},
	{ID: grcAuth.MetricTOTPSetup, Name: "grcauth_totp_setup_total", Help: "Authenticator enrolment operations."},
	{ID: grcAuth.MetricTOTPSuccess, Name: "grcauth_totp_success_total", Help: "Successful authenticator verifications."},
	{ID: grcAuth.MetricTOTPFailure, Name: "grcauth_totp_failure_total", Help: "Failed authenticator verifications."},
	{ID: grcAuth.MetricRefreshSuccess, Name: "grcauth_refresh_success_total", Help: "Successful refresh operations."},
	{ID: grcAuth.MetricRefreshFailure, Name: "grcauth_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: grcAuth.MetricPasswordChangeSuccess, Name: "grcauth_password_change_success_total", Help: "Successful password changes."},
	{ID: grcAuth.MetricPasswordChangeInvalidOld, Name: "grcauth_password_change_invalid_old_total", Help: "Password change attempts with invalid old password."},
	{ID: grcAuth.MetricPasswordPolicyRejected, Name: "grcauth_password_policy_rejected_total", Help: "Password candidates rejected by complexity policy."},
	{ID: grcAuth.MetricPasswordReuseRejected, Name: "grcauth_password_reuse_rejected_total", Help: "Password candidates rejected for reuse."},
	{ID: grcAuth.MetricResetRequest, Name: "grcauth_reset_request_total", Help: "Password reset requests."},
	{ID: grcAuth.MetricResetSuccess, Name: "grcauth_reset_success_total", Help: "Successful password reset confirmations."},
	{ID: grcAuth.MetricResetFailure, Name: "grcauth_reset_failure_total", Help: "Failed password reset confirmations."},
	{ID: grcAuth.MetricLinkIssued, Name: "grcauth_link_issued_total", Help: "Issued single-use link tokens."},
	{ID: grcAuth.MetricLinkConsumed, Name: "grcauth_link_consumed_total", Help: "Consumed single-use link tokens."},
	{ID: grcAuth.MetricLinkExpired, Name: "grcauth_link_expired_total", Help: "Link tokens removed on detected expiry."},
	{ID: grcAuth.MetricInviteIssued, Name: "grcauth_invite_issued_total", Help: "Issued user invitations."},
	{ID: grcAuth.MetricAccountCreated, Name: "grcauth_account_created_total", Help: "Accounts created through invitation or provisioning."},
	{ID: grcAuth.MetricAccountStatusChanged, Name: "grcauth_account_status_changed_total", Help: "Account activation state changes."},
	{ID: grcAuth.MetricAuditEmitFailure, Name: "grcauth_audit_emit_failure_total", Help: "Audit sink emit failures."},
	{ID: grcAuth.MetricMailFailure, Name: "grcauth_mail_failure_total", Help: "Mail delivery failures."},
}
