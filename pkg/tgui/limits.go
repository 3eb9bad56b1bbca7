package tgui

import "errors"

// MaxCallbackDataLen is Telegram's callback_data size limit in bytes.
const MaxCallbackDataLen = 64

// MaxButtonsPerRow is the widest inline row Telegram renders.
const MaxButtonsPerRow = 8

var (
	ErrCallbackDataTooLong = errors.New("tgui: callback_data too long")
	ErrRowTooWide          = errors.New("tgui: too many buttons in a row")
)
