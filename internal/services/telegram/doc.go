// Package telegram delivers rendered documents through the Telegram Bot
// API. Failures are classified as transient or permanent so the delivery
// stage can decide whether to retry.
package telegram
