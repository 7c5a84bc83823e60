package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/attachment"
	"chatbot-cli/internal/chat"
	"chatbot-cli/internal/config"
	"chatbot-cli/internal/conversation"
	"chatbot-cli/internal/emoji"
	"chatbot-cli/internal/i18n"
	"chatbot-cli/internal/logger"
	"chatbot-cli/internal/render"
	"chatbot-cli/internal/tui/slash"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxComposerLines = 6
	noticeTTL        = 3 * time.Second
	thumbPreviewCols = 12
	thumbPreviewRows = 4
)

var log = logger.Named("tui")

type Options struct {
	Context context.Context
	Config  config.Config
	Client  agent.Client
	History *conversation.History
	// InitialPrompt 启动后立即发送。
	InitialPrompt string
	// InitialAttachment 预先附加，随第一条消息发送。
	InitialAttachment *attachment.Attachment
	// Reloads 传入配置热加载结果，可为空。
	Reloads <-chan ConfigReload
	// HTTPClient 用于拉取表情数据。
	HTTPClient *http.Client
	// DisableEmojiFetch 只使用内置表情数据。
	DisableEmojiFetch bool
	// Clipboard 默认写系统剪贴板。
	Clipboard func(string) error

	// 以下字段只由 Run 使用。
	// ConfigPath 非空时监听该文件并热加载。
	ConfigPath string
	// AdjustConfig 在每次热加载后重新应用命令行覆盖项。
	AdjustConfig func(config.Config) config.Config
	// NewClient 按新配置构建客户端，默认 backend.New。
	NewClient func(context.Context, config.Config) (agent.Client, error)
	// CopyableOutput 不使用备用屏幕，方便复制终端内容。
	CopyableOutput bool
}

// ConfigReload 是一次配置热加载的结果；Client 已按新配置构建。
type ConfigReload struct {
	Config config.Config
	Client agent.Client
	Err    error
}

type startPromptMsg struct {
	Text string
}

// thinkingDoneMsg 在思考停顿结束后到达，此时才插入占位符并发请求。
type thinkingDoneMsg struct {
	Input chat.PendingInput
}

type replyMsg struct {
	Outcome chat.Outcome
}

type attachmentMsg struct {
	Attachment attachment.Attachment
	Preview    string
	Err        error
	seq        int
}

type noticeExpiredMsg struct {
	seq int
}

type Model struct {
	ctx         context.Context
	cfg         config.Config
	lang        i18n.Language
	textarea    textarea.Model
	viewport    render.Viewport
	files       filepicker.Model
	picker      *emoji.Picker
	slash       *slash.State
	spin        spinner.Model
	status      *StatusIndicatorWidget
	renderer    *render.Renderer
	coord       *chat.Coordinator
	attachments *attachment.Handler
	prompts     promptHistory
	reloads     <-chan ConfigReload
	httpClient  *http.Client
	clipboard   func(string) error

	initSend      string
	fetchEmoji    bool
	sending       bool
	pickingFile   bool
	showHelp      bool
	alert         string
	notice        string
	noticeSeq     int
	attachSeq     int
	preview       string
	frame         int
	width         int
	height        int
	transcriptDir bool
}

var thinkingSpinner = spinner.Spinner{
	Frames: []string{"●∙∙", "∙●∙", "∙∙●"},
	FPS:    time.Second / 3,
}

func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	lang := i18n.Normalize(cfg.Language)

	ti := textarea.New()
	ti.Placeholder = i18n.T(lang, i18n.KeyComposerHint)
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.ShowLineNumbers = false
	ti.SetWidth(80)
	ti.SetHeight(1) // 默认单行，按内容扩展
	ti.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ti.Focus()

	spin := spinner.New()
	spin.Spinner = thinkingSpinner
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	picker := emoji.NewPicker(emoji.Fallback())

	coord := chat.NewCoordinator(opts.History, opts.Client)
	coord.SetErrorPrefix(i18n.T(lang, i18n.KeyErrorPrefix))

	handler := attachment.NewHandler()
	var preview string
	if opts.InitialAttachment != nil {
		handler.Set(*opts.InitialAttachment)
		preview = previewFor(*opts.InitialAttachment)
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	m := &Model{
		ctx:           ctx,
		cfg:           cfg,
		lang:          lang,
		textarea:      ti,
		viewport:      render.NewViewport(80, 20),
		files:         newFilePicker(),
		picker:        picker,
		slash:         slash.NewState(slash.Options{}),
		spin:          spin,
		status:        NewStatusIndicatorWidget(StatusIndicatorOptions{}),
		renderer:      render.NewRenderer(),
		coord:         coord,
		attachments:   handler,
		preview:       preview,
		reloads:       opts.Reloads,
		httpClient:    opts.HTTPClient,
		clipboard:     clip,
		initSend:      strings.TrimSpace(opts.InitialPrompt),
		fetchEmoji:    !opts.DisableEmojiFetch,
		width:         80,
		height:        24,
		transcriptDir: true,
	}
	m.resize(m.width, m.height)
	return m
}

func newFilePicker() filepicker.Model {
	fp := filepicker.New()
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = 12
	return fp
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, textarea.Blink}
	if m.fetchEmoji {
		cmds = append(cmds, emoji.LoadCmd(m.ctx, m.httpClient, m.cfg.EmojiDataURL))
	}
	if cmd := m.listenReloads(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.initSend != "" {
		prompt := m.initSend
		cmds = append(cmds, func() tea.Msg { return startPromptMsg{Text: prompt} })
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.pickingFile {
			var cmd tea.Cmd
			m.files, cmd = m.files.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m.finish(cmds...)
	case startPromptMsg:
		m.textarea.SetValue(msg.Text)
		cmds = append(cmds, m.submit())
		return m.finish(cmds...)
	case thinkingDoneMsg:
		cmds = append(cmds, m.startSend(msg.Input))
		return m.finish(cmds...)
	case replyMsg:
		m.finishSend(msg.Outcome)
		return m.finish(cmds...)
	case attachmentMsg:
		cmds = append(cmds, m.applyAttachment(msg))
		return m.finish(cmds...)
	case ConfigReload:
		cmds = append(cmds, m.applyReload(msg), m.listenReloads())
		return m.finish(cmds...)
	case emoji.LoadedMsg:
		if msg.Dataset != nil {
			m.picker.SetDataset(msg.Dataset)
		}
		return m.finish(cmds...)
	case emoji.SelectedMsg:
		m.textarea.InsertString(msg.Native)
		cmds = append(cmds, m.textarea.Focus())
		m.onContentChange()
		return m.finish(cmds...)
	case emoji.ClosedMsg:
		cmds = append(cmds, m.textarea.Focus())
		return m.finish(cmds...)
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m.finish(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.renderer.Thinking() {
			m.frame++
			m.refreshTranscript()
		}
		return m.finish(cmds...)
	case tea.MouseMsg:
		if !m.overlayOpen() {
			cmds = append(cmds, m.viewport.HandleUpdate(msg))
		}
		return m.finish(cmds...)
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			cmds = append(cmds, cmd)
			return m.finish(cmds...)
		}
	default:
		if m.picker.IsOpen() {
			cmds = append(cmds, m.picker.Update(msg))
		}
		if m.pickingFile {
			var cmd tea.Cmd
			m.files, cmd = m.files.Update(msg)
			cmds = append(cmds, cmd)
			return m.finish(cmds...)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	if _, isKey := msg.(tea.KeyMsg); isKey {
		m.onContentChange()
	}
	return m.finish(cmds...)
}

// handleKey 依次交给弹窗、快捷键处理；未处理的按键落到输入框。
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := msg.String()
	if k == "ctrl+c" {
		return tea.Quit, true
	}
	if m.alert != "" {
		if k == "enter" || k == "esc" || k == " " {
			m.alert = ""
		}
		return nil, true
	}
	if m.showHelp {
		if k == "enter" || k == "esc" || k == "q" || k == "?" {
			m.showHelp = false
		}
		return nil, true
	}
	if m.pickingFile {
		return m.updateFilePicker(msg), true
	}
	if m.picker.IsOpen() {
		return m.picker.Update(msg), true
	}
	if m.slash.Open() {
		if act, handled := m.slash.HandleKey(k); handled {
			return m.applySlashAction(act), true
		}
	}

	switch k {
	case "ctrl+s":
		return m.submit(), true
	case "enter":
		if m.width >= m.cfg.EnterSendsMinWidth {
			return m.submit(), true
		}
		// 窄终端里 enter 只换行，发送走 ctrl+s
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
		m.onContentChange()
		return cmd, true
	case "ctrl+o":
		return m.openFilePicker(), true
	case "ctrl+x":
		return m.detach(), true
	case "ctrl+e":
		m.picker.SetWidth(min(m.width-4, 48))
		return m.picker.Toggle(), true
	case "ctrl+y":
		return m.copyLastReply(), true
	case "pgup":
		m.viewport.PageUp()
		return nil, true
	case "pgdown":
		m.viewport.PageDown()
		return nil, true
	case "up":
		if m.atFirstRow() {
			if text, ok := m.prompts.Prev(m.textarea.Value()); ok {
				m.setComposerValue(text)
				return nil, true
			}
		}
	case "down":
		if m.prompts.Browsing() && m.atLastRow() {
			if text, ok := m.prompts.Next(); ok {
				m.setComposerValue(text)
				return nil, true
			}
		}
	}
	return nil, false
}

func (m *Model) atFirstRow() bool {
	return m.textarea.Line() == 0 && m.textarea.LineInfo().RowOffset == 0
}

func (m *Model) atLastRow() bool {
	info := m.textarea.LineInfo()
	return m.textarea.Line() >= m.textarea.LineCount()-1 && info.RowOffset >= max(info.Height, 1)-1
}

// submit 对应发送按钮：快照输入、清空输入框、先渲染用户消息，
// 停顿 thinking_delay 后再插入占位符。
func (m *Model) submit() tea.Cmd {
	raw := m.textarea.Value()
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "/") {
		act := m.slash.ResolveSubmit(text)
		switch act.Kind {
		case slash.ActionSubmitCommand:
			m.prompts.Add(text)
			m.resetComposer()
			return m.runCommand(act.Command, act.Args)
		case slash.ActionError:
			m.showAlert(i18n.T(m.lang, i18n.KeyUnknownCommand, act.Unknown))
			return nil
		}
	}

	if m.sending {
		return m.flash(i18n.T(m.lang, i18n.KeyBusy))
	}
	if _, hasAttachment := m.attachments.Pending(); text == "" && !hasAttachment {
		return nil
	}

	in := chat.PendingInput{Text: text, Attachment: m.attachments.Take()}
	m.preview = ""
	m.prompts.Add(text)
	m.resetComposer()
	m.renderer.RenderUser(in.Text, in.Attachment)
	m.sending = true
	m.status.SetState(StatusThinking)
	m.status.UpdateHeader(i18n.T(m.lang, i18n.KeyThinking))
	m.refreshTranscript()
	m.resize(m.width, m.height)

	delay := m.cfg.ThinkingDelay()
	if delay <= 0 {
		return func() tea.Msg { return thinkingDoneMsg{Input: in} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return thinkingDoneMsg{Input: in} })
}

func (m *Model) startSend(in chat.PendingInput) tea.Cmd {
	id := m.renderer.RenderBotPlaceholder()
	m.status.SetState(StatusWaiting)
	m.status.UpdateHeader(i18n.T(m.lang, i18n.KeyWaiting))
	m.refreshTranscript()

	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		return replyMsg{Outcome: coord.Send(ctx, id, in)}
	}
}

func (m *Model) finishSend(o chat.Outcome) {
	chat.Resolve(m.renderer, o)
	m.sending = false
	if o.Failed() {
		m.status.SetState(StatusError)
		m.status.UpdateHeader(fmt.Sprintf("%s: %s", i18n.T(m.lang, i18n.KeyFailed), chat.Kind(o.Err)))
	} else {
		m.status.SetState(StatusIdle)
	}
	m.refreshTranscript()
	m.resize(m.width, m.height)
}

func (m *Model) runCommand(cmd slash.Command, args string) tea.Cmd {
	switch cmd {
	case slash.CommandAttach:
		path := strings.TrimSpace(args)
		if path == "" {
			m.showAlert(i18n.T(m.lang, i18n.KeyAttachUsage))
			return nil
		}
		return m.loadAttachment(path)
	case slash.CommandDetach:
		return m.detach()
	case slash.CommandEmoji:
		m.picker.SetWidth(min(m.width-4, 48))
		return m.picker.Open()
	case slash.CommandCopy:
		return m.copyLastReply()
	case slash.CommandHelp:
		m.showHelp = true
	case slash.CommandQuit, slash.CommandExit:
		return tea.Quit
	}
	return nil
}

func (m *Model) applySlashAction(act slash.Action) tea.Cmd {
	switch act.Kind {
	case slash.ActionInsert:
		m.setComposerValue(act.NewValue)
		m.textarea.SetCursor(act.CursorColumn)
		m.syncSlash()
	case slash.ActionSubmitCommand:
		m.prompts.Add("/" + string(act.Command))
		m.resetComposer()
		return m.runCommand(act.Command, act.Args)
	case slash.ActionClose:
		m.slash.Close()
	case slash.ActionError:
		m.slash.Close()
		m.showAlert(i18n.T(m.lang, i18n.KeyUnknownCommand, act.Unknown))
	}
	return nil
}

func (m *Model) openFilePicker() tea.Cmd {
	m.files = newFilePicker()
	m.files.Height = max(3, m.viewport.Height-4)
	m.pickingFile = true
	return m.files.Init()
}

func (m *Model) updateFilePicker(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		m.pickingFile = false
		return nil
	}
	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	if didSelect, path := m.files.DidSelectFile(msg); didSelect {
		m.pickingFile = false
		return tea.Batch(cmd, m.loadAttachment(path))
	}
	return cmd
}

// loadAttachment 在后台校验、编码并生成预览，失败时不动已有附件。
// 每次选择递增 attachSeq，只有最新一次的结果会被采用。
func (m *Model) loadAttachment(path string) tea.Cmd {
	m.attachSeq++
	ctx, seq := m.ctx, m.attachSeq
	return func() tea.Msg {
		f, err := attachment.FromPath(expandHome(path))
		if err != nil {
			return attachmentMsg{Err: err, seq: seq}
		}
		att, err := attachment.Encode(ctx, f)
		if err != nil {
			return attachmentMsg{Err: err, seq: seq}
		}
		return attachmentMsg{Attachment: att, Preview: previewFor(att), seq: seq}
	}
}

func (m *Model) applyAttachment(msg attachmentMsg) tea.Cmd {
	if msg.seq != m.attachSeq {
		log.WithField("file", msg.Attachment.Name).Debugf("stale attachment load dropped")
		return nil
	}
	if msg.Err != nil {
		log.WithError(msg.Err).Warnf("attachment rejected")
		m.files = newFilePicker()
		m.showAlert(m.attachmentAlert(msg.Err))
		return nil
	}
	m.attachments.Set(msg.Attachment)
	m.preview = msg.Preview
	m.resize(m.width, m.height)
	return m.flash(i18n.T(m.lang, i18n.KeyAttached, msg.Attachment.Label()))
}

func (m *Model) attachmentAlert(err error) string {
	var verr *attachment.ValidationError
	if errors.As(err, &verr) {
		switch verr.Kind {
		case attachment.UnsupportedType:
			return i18n.T(m.lang, i18n.KeyUnsupportedType)
		case attachment.TooLarge:
			return i18n.T(m.lang, i18n.KeyTooLarge)
		}
	}
	return i18n.T(m.lang, i18n.KeyAttachFailed, err)
}

func (m *Model) detach() tea.Cmd {
	if _, ok := m.attachments.Pending(); !ok {
		return nil
	}
	m.attachments.Cancel()
	m.preview = ""
	m.resize(m.width, m.height)
	return m.flash(i18n.T(m.lang, i18n.KeyDetached))
}

func (m *Model) copyLastReply() tea.Cmd {
	turn, ok := m.coord.History().Last(conversation.RoleModel)
	if !ok {
		return m.flash(i18n.T(m.lang, i18n.KeyNothingToCopy))
	}
	if err := m.clipboard(turn.Text()); err != nil {
		return m.flash(i18n.T(m.lang, i18n.KeyClipboardFailed, err))
	}
	return m.flash(i18n.T(m.lang, i18n.KeyCopied))
}

func (m *Model) applyReload(msg ConfigReload) tea.Cmd {
	if msg.Err != nil {
		log.WithError(msg.Err).Warnf("config reload failed")
		return m.flash(i18n.T(m.lang, i18n.KeyConfigReloadFailed, msg.Err))
	}
	m.cfg = msg.Config
	m.lang = i18n.Normalize(msg.Config.Language)
	m.textarea.Placeholder = i18n.T(m.lang, i18n.KeyComposerHint)
	m.coord.SetErrorPrefix(i18n.T(m.lang, i18n.KeyErrorPrefix))
	if msg.Client != nil {
		m.coord.SetClient(msg.Client)
	}
	info := m.clientInfo()
	log.WithField("provider", info.Provider).WithField("model", info.Model).Infof("config reloaded")
	return m.flash(i18n.T(m.lang, i18n.KeyConfigReloaded, info.Provider, info.Model))
}

func (m *Model) listenReloads() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// expandHome 展开路径开头的 ~。
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (m *Model) showAlert(text string) {
	m.alert = text
}

// flash 在状态栏短暂显示提示。
func (m *Model) flash(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (m *Model) resetComposer() {
	m.textarea.Reset()
	m.slash.Close()
	m.setComposerHeight()
}

func (m *Model) setComposerValue(text string) {
	m.textarea.SetValue(text)
	m.setComposerHeight()
	m.syncSlash()
}

// onContentChange 对应输入框内容变化：调整高度并同步斜杠弹窗。
func (m *Model) onContentChange() {
	m.setComposerHeight()
	m.syncSlash()
}

func (m *Model) syncSlash() {
	info := m.textarea.LineInfo()
	m.slash.SyncInput(slash.Input{
		Value:        m.textarea.Value(),
		CursorLine:   m.textarea.Line(),
		CursorColumn: info.StartColumn + info.ColumnOffset,
	})
}

func (m *Model) setComposerHeight() {
	lines := m.textarea.LineCount()
	lines = max(1, min(lines, maxComposerLines))
	if m.textarea.Height() != lines {
		m.textarea.SetHeight(lines)
		m.resize(m.width, m.height)
	}
}

func (m *Model) overlayOpen() bool {
	return m.alert != "" || m.showHelp || m.pickingFile || m.picker.IsOpen()
}

func (m *Model) clientInfo() agent.Info {
	if c := m.coord.Client(); c != nil {
		return c.Info()
	}
	return agent.Info{Provider: "none", Model: "-"}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	headerHeight := 1
	composerHeight := m.textarea.Height() + 2 // border
	previewHeight := 0
	if preview := m.previewView(); preview != "" {
		previewHeight = lipgloss.Height(preview)
	}
	statusHeight := 1
	hintsHeight := 1
	viewHeight := max(3, height-headerHeight-composerHeight-previewHeight-statusHeight-hintsHeight)

	m.viewport.Resize(max(20, width), viewHeight)
	m.textarea.SetWidth(max(10, width-4))
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	m.transcriptDir = true
}

func (m *Model) flushTranscript() {
	if !m.transcriptDir {
		return
	}
	m.transcriptDir = false
	m.viewport.SetLines(m.renderTranscriptLines(), m.renderer.ConsumeScroll())
}

func (m *Model) renderTranscriptLines() []string {
	width := max(20, m.viewport.Width)
	if m.renderer.Len() == 0 {
		return []string{welcomeStyle.Render(i18n.T(m.lang, i18n.KeyWelcome))}
	}
	return m.renderer.Lines(width, m.frame)
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.flushTranscript()
	return m, tea.Batch(cmds...)
}

// History returns the recorded conversation.
func (m *Model) History() []conversation.Turn {
	return m.coord.History().Snapshot()
}

// Sending reports whether a reply is outstanding.
func (m *Model) Sending() bool {
	return m.sending
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	welcomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	modalStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("#FFB454"))
	alertStyle = modalStyle.BorderForeground(lipgloss.Color(render.ErrorColor))
	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5E6472")).
			Padding(0, 1)
)

func (m *Model) View() string {
	header := m.headerView()
	body := m.viewport.View()
	switch {
	case m.alert != "":
		body = m.center(alertStyle.Render(m.alert + "\n\n" + mutedStyle.Render(i18n.T(m.lang, i18n.KeyDismiss))))
	case m.showHelp:
		body = m.center(modalStyle.Render(i18n.T(m.lang, i18n.KeyHelp)))
	case m.pickingFile:
		body = m.center(modalStyle.Render(titleStyle.Render(i18n.T(m.lang, i18n.KeyPickFile)) + "\n\n" + m.files.View()))
	case m.picker.IsOpen():
		body = overlayBottom(body, m.picker.View())
	case m.slash.Open():
		body = overlayBottom(body, popupStyle.Render(m.slash.View(max(20, m.width-6))))
	}

	parts := []string{header, body}
	if preview := m.previewView(); preview != "" {
		parts = append(parts, preview)
	}
	parts = append(parts, m.composerView(), m.statusView(), m.hintsView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) center(content string) string {
	return lipgloss.Place(max(20, m.width), m.viewport.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) headerView() string {
	info := m.clientInfo()
	left := titleStyle.Render("Chatbot")
	right := mutedStyle.Render(fmt.Sprintf("%s · %s", info.Model, info.Provider))
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// thumbnail 可在测试中替换。
var thumbnail = attachment.Thumbnail

// previewFor 解码一次图片，生成待发送附件的预览行。
func previewFor(att attachment.Attachment) string {
	label := mutedStyle.Render("📎 " + att.Label() + "  (ctrl+x)")
	thumb := thumbnail(att, thumbPreviewCols, thumbPreviewRows)
	if thumb == att.Label() {
		return label
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, thumb, " ", label)
}

// previewView 显示待发送的附件：缩略图与文件信息。
func (m *Model) previewView() string {
	if _, ok := m.attachments.Pending(); !ok {
		return ""
	}
	return m.preview
}

// composerView 单行时圆角边框，多行时直角边框。
func (m *Model) composerView() string {
	border := lipgloss.RoundedBorder()
	if m.textarea.LineCount() > 1 {
		border = lipgloss.NormalBorder()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color("#5E6472")).
		Padding(0, 1).
		Render(m.textarea.View())
}

func (m *Model) statusView() string {
	parts := []string{}
	if line, ok := m.status.Render(max(10, m.width/2), m.spin.View()); ok {
		parts = append(parts, render.LinesToStrings([]render.Line{line})[0])
	}
	if m.notice != "" {
		parts = append(parts, m.notice)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D7A85")).
		Padding(0, 1).
		Width(max(20, m.width)).
		Render(strings.Join(parts, " • "))
}

func (m *Model) hintsView() string {
	send := "enter"
	if m.width < m.cfg.EnterSendsMinWidth {
		send = "ctrl+s"
	}
	hint := fmt.Sprintf("%s send • alt+enter newline • ctrl+o image • ctrl+e emoji • /help • %s",
		send, scrollHint(m.viewport.ScrollPercent()))
	return mutedStyle.Padding(0, 1).Render(hint)
}

func scrollHint(percent float64) string {
	p := int(math.Round(percent * 100))
	return fmt.Sprintf("%d%%", max(0, min(100, p)))
}

// overlayBottom 用 overlay 覆盖 base 的最后几行，保持总行数不变。
func overlayBottom(base, overlay string) string {
	baseLines := strings.Split(base, "\n")
	overLines := strings.Split(overlay, "\n")
	if len(overLines) >= len(baseLines) {
		return strings.Join(overLines[len(overLines)-len(baseLines):], "\n")
	}
	copy(baseLines[len(baseLines)-len(overLines):], overLines)
	return strings.Join(baseLines, "\n")
}
