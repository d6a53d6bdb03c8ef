// Package lib holds integrations that do not belong to a single layer:
// background job processing (asynq over Redis) and transactional email
// (Resend).
package lib
