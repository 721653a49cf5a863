// Package telegram sends outbound notifications through the Telegram Bot
// API.
//
// The notifier covers the single call this service makes: sendMessage to
// the requesting chat. The webhook update types come from the same telebot
// library, so inbound parsing and outbound sending share one vocabulary.
package telegram
