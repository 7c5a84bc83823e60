package i18n

import "fmt"

// Key 标识一条界面文案。
type Key string

const (
	KeyErrorPrefix        Key = "error_prefix"
	KeyUnsupportedType    Key = "unsupported_type"
	KeyTooLarge           Key = "too_large"
	KeyComposerHint       Key = "composer_hint"
	KeyThinking           Key = "thinking"
	KeyWaiting            Key = "waiting"
	KeyFailed             Key = "failed"
	KeyCopied             Key = "copied"
	KeyNothingToCopy      Key = "nothing_to_copy"
	KeyClipboardFailed    Key = "clipboard_failed"
	KeyAttached           Key = "attached"
	KeyDetached           Key = "detached"
	KeyAttachUsage        Key = "attach_usage"
	KeyAttachFailed       Key = "attach_failed"
	KeyBusy               Key = "busy"
	KeyUnknownCommand     Key = "unknown_command"
	KeyConfigReloaded     Key = "config_reloaded"
	KeyConfigReloadFailed Key = "config_reload_failed"
	KeyDismiss            Key = "dismiss"
	KeyHelp               Key = "help"
	KeyWelcome            Key = "welcome"
	KeyPickFile           Key = "pick_file"
)

var catalog = map[Language]map[Key]string{
	LanguageEnglish: {
		KeyErrorPrefix:        "Oops! Something went wrong:",
		KeyUnsupportedType:    "Please select an image file (JPG, PNG, etc.)",
		KeyTooLarge:           "File is too large. Max 5MB allowed.",
		KeyComposerHint:       "Message...",
		KeyThinking:           "Thinking",
		KeyWaiting:            "Waiting for reply",
		KeyFailed:             "Failed",
		KeyCopied:             "Copied last reply to clipboard.",
		KeyNothingToCopy:      "No reply to copy yet.",
		KeyClipboardFailed:    "Clipboard unavailable: %v",
		KeyAttached:           "Attached %s",
		KeyDetached:           "Attachment removed.",
		KeyAttachUsage:        "Usage: /attach <path>",
		KeyAttachFailed:       "Could not read file: %v",
		KeyBusy:               "Still waiting for the previous reply.",
		KeyUnknownCommand:     "Unknown command /%s. Type /help for the list.",
		KeyConfigReloaded:     "Config reloaded: %s · %s",
		KeyConfigReloadFailed: "Config reload failed: %v",
		KeyDismiss:            "Press enter or esc to dismiss.",
		KeyHelp: `enter / ctrl+s   send message
alt+enter        new line
ctrl+o           choose an image     /attach <path>
ctrl+x           remove attachment   /detach
ctrl+e           emoji picker        /emoji
ctrl+y           copy last reply     /copy
up / down        prompt history
pgup / pgdown    scroll transcript
/help            this help           /quit  exit`,
		KeyWelcome:  "Hey there 👋 How can I help you today?",
		KeyPickFile: "Choose an image (esc to cancel)",
	},
	LanguageChinese: {
		KeyErrorPrefix:        "哎呀，出错了：",
		KeyUnsupportedType:    "请选择图片文件（JPG、PNG 等）",
		KeyTooLarge:           "文件过大，最大 5MB。",
		KeyComposerHint:       "输入消息...",
		KeyThinking:           "思考中",
		KeyWaiting:            "等待回复",
		KeyFailed:             "失败",
		KeyCopied:             "已复制最近一条回复。",
		KeyNothingToCopy:      "还没有可复制的回复。",
		KeyClipboardFailed:    "剪贴板不可用：%v",
		KeyAttached:           "已附加 %s",
		KeyDetached:           "已移除附件。",
		KeyAttachUsage:        "用法：/attach <路径>",
		KeyAttachFailed:       "无法读取文件：%v",
		KeyBusy:               "上一条回复还在等待中。",
		KeyUnknownCommand:     "不认识的命令 /%s，输入 /help 查看列表",
		KeyConfigReloaded:     "配置已重新加载：%s · %s",
		KeyConfigReloadFailed: "配置重新加载失败：%v",
		KeyDismiss:            "按 enter 或 esc 关闭。",
		KeyHelp: `enter / ctrl+s   发送消息
alt+enter        换行
ctrl+o           选择图片            /attach <路径>
ctrl+x           移除附件            /detach
ctrl+e           表情选择器          /emoji
ctrl+y           复制最近回复        /copy
up / down        历史输入
pgup / pgdown    滚动对话
/help            帮助                /quit  退出`,
		KeyWelcome:  "你好 👋 今天有什么可以帮你？",
		KeyPickFile: "选择图片（esc 取消）",
	},
}

// T 返回 lang 下的文案；缺失时回退到英文，再缺失则返回 key 本身。
func T(lang Language, key Key, args ...any) string {
	msg, ok := catalog[Normalize(string(lang))][key]
	if !ok {
		msg, ok = catalog[LanguageEnglish][key]
	}
	if !ok {
		return string(key)
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
