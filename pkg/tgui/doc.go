// Package tgui converts transport keyboards into telebot inline markup and
// checks them against Telegram's limits.
package tgui
