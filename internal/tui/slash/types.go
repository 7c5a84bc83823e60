package slash

import "strings"

// Command 表示内置斜杠命令的标识符。
type Command string

const (
	CommandAttach Command = "attach"
	CommandDetach Command = "detach"
	CommandEmoji  Command = "emoji"
	CommandCopy   Command = "copy"
	CommandHelp   Command = "help"
	CommandQuit   Command = "quit"
	CommandExit   Command = "exit"
)

// Item 代表弹窗中的一行条目。
type Item struct {
	Command     Command
	Usage       string
	Description string
	// TakesArgs 为 true 时 tab 补全后保留光标等待参数。
	TakesArgs bool
}

// Token 返回无前导斜杠的匹配键。
func (i Item) Token() string {
	return string(i.Command)
}

// DisplayName 返回带前缀斜杠的展示名称。
func (i Item) DisplayName() string {
	token := i.Token()
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "/") {
		return token
	}
	return "/" + token
}

func builtinItems() []Item {
	return []Item{
		{Command: CommandAttach, Usage: "<path>", Description: "attach an image", TakesArgs: true},
		{Command: CommandDetach, Description: "remove the attachment"},
		{Command: CommandEmoji, Description: "open the emoji picker"},
		{Command: CommandCopy, Description: "copy the last reply"},
		{Command: CommandHelp, Description: "show key bindings"},
		{Command: CommandQuit, Description: "exit"},
		{Command: CommandExit, Description: "exit"},
	}
}
