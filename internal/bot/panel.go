package bot

import "joinbot/internal/transport"

// Callback data of the admin panel buttons.
const (
	CallbackEditWelcome   = "edit_welcome"
	CallbackResetWelcome  = "reset_welcome"
	CallbackSendBroadcast = "send_broadcast"
	CallbackAddChannel    = "add_channel"
	CallbackAddGroup      = "add_group"
)

const (
	textPanel          = "Admin Panel:"
	textAccessDenied   = "Access denied. You are not an admin."
	textNotAdmin       = "You are not an admin."
	textEditPrompt     = "Send the new welcome message now.\nUse {name} for username."
	textResetDone      = "Welcome message has been reset successfully."
	textBroadcastAsk   = "Send the broadcast message now."
	textTemplateSaved  = "Welcome message updated successfully."
	textTemplateFailed = "Could not save welcome message: "
	textBroadcastSent  = "Broadcast sent to %d users."

	textAddChannel = "Telegram does NOT allow bots to automatically detect your channels.\n\n" +
		"👉 Please manually add the bot as an ADMIN in the channel.\n" +
		"✓ Enable: Invite Users\n" +
		"✓ Enable: Approve Join Requests (if approval mode is ON)\n\n" +
		"After adding, the bot will automatically start approving members."

	textAddGroup = "Please manually add the bot to your GROUP and grant admin permissions:\n\n" +
		"✓ Add Members\n" +
		"✓ Approve Join Requests (if required)\n\n" +
		"Once added, the bot will work automatically."
)

// PanelKeyboard is the admin menu, one button per row.
func PanelKeyboard() transport.Keyboard {
	return transport.Keyboard{
		{{Text: "✏ Edit Welcome Msg", Data: CallbackEditWelcome}},
		{{Text: "♻ Reset Welcome Msg", Data: CallbackResetWelcome}},
		{{Text: "📢 Send Broadcast", Data: CallbackSendBroadcast}},
		{{Text: "📺 Add to Channel", Data: CallbackAddChannel}},
		{{Text: "👥 Add to Group", Data: CallbackAddGroup}},
	}
}
