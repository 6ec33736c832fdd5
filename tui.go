package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"codedeck/api"
	"codedeck/workspace"
)

type screenMode int

const (
	screenLogin screenMode = iota
	screenMain
)

type focusZone int

const (
	focusExplorer focusZone = iota
	focusEditor
	focusOutput
)

// Model holds all state for the TUI. It owns the session, routes input to
// the focused region, and reconciles async backend responses against the
// current load generation so stale replies never land.
type Model struct {
	client  *api.Client
	session *workspace.Session
	search  *workspace.SearchEngine
	logger  *zap.SugaredLogger

	cfg     Config
	keys    KeyMap
	theme   Theme
	profile colorprofile.Profile
	state   UIState

	screen screenMode
	login  *LoginForm
	focus  focusZone

	explorer *ExplorerPane
	editor   *EditorView
	output   *OutputPane
	overlays *OverlayStack
	help     help.Model
	commands []Command

	// loadGen is bumped whenever the frame of reference changes (project
	// switch, logout). Async responses carry the generation they were
	// issued under and are discarded when it no longer matches.
	loadGen int

	// autosaveGen is bumped on every edit; only the tick armed by the
	// newest edit fires a save.
	autosaveGen int

	// One save per file may be in flight; saving maps path to the payload
	// that was sent. saveAgain marks files edited while their save was
	// out, needing another round.
	saving    map[string]string
	saveAgain map[string]bool

	outputVisible bool
	pendingDelete string // File awaiting delete confirmation
	pendingOpen   string // File whose read is outstanding; only its response may switch tabs
	statusMsg     string
	statusIsErr   bool
	statusGen     int
	lastSavedAt   time.Time

	width  int
	height int
}

// NewModel wires up the TUI. A persisted token skips the login screen; the
// first request will bounce us back if it has expired.
func NewModel(client *api.Client, cfg Config, st UIState, profile colorprofile.Profile, logger *zap.SugaredLogger) Model {
	session := workspace.NewSession()
	m := Model{
		client:    client,
		session:   session,
		search:    workspace.NewSearchEngine(),
		logger:    logger,
		cfg:       cfg,
		keys:      cfg.ToKeyMap(),
		theme:     ThemeFor(st.Theme, profile),
		profile:   profile,
		state:     st,
		screen:    screenLogin,
		login:     NewLoginForm(),
		explorer:  NewExplorerPane(session),
		editor:    NewEditorView(session),
		output:    NewOutputPane(),
		overlays:  NewOverlayStack(80, 24),
		help:      help.New(),
		saving:    make(map[string]string),
		saveAgain: make(map[string]bool),
	}
	m.commands = buildCommands(m.keys)

	if st.Token != "" {
		client.SetToken(st.Token)
		m.screen = screenMain
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenMain {
		return m.fetchProjects()
	}
	return nil
}

func (m *Model) autosaveDelay() time.Duration {
	ms := m.cfg.AutosaveDelayMs
	if ms <= 0 {
		ms = 1500
	}
	return time.Duration(ms) * time.Millisecond
}

func (m *Model) editableFocus() bool {
	return m.focus == focusEditor
}

// fileTarget resolves which file a file-scoped command acts on: the explorer
// selection when the explorer has focus, otherwise the current tab.
func (m *Model) fileTarget() string {
	if m.focus == focusExplorer {
		if f := m.explorer.SelectedFile(); f != "" {
			return f
		}
		return ""
	}
	return m.session.CurrentFile
}

// runTarget resolves the file to execute: the project's main file when set,
// otherwise the current tab.
func (m *Model) runTarget() string {
	if m.session.RunConfigFile != "" {
		return m.session.RunConfigFile
	}
	return m.session.CurrentFile
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.overlays.UpdateSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginMsg:
		return m.handleLogin(msg)
	case projectsMsg:
		return m.handleProjects(msg)
	case projectCreatedMsg:
		return m.handleProjectCreated(msg)
	case projectDeletedMsg:
		return m.handleProjectDeleted(msg)
	case filesMsg:
		return m.handleFiles(msg)
	case runConfigMsg:
		return m.handleRunConfig(msg)
	case runConfigSetMsg:
		return m.handleRunConfigSet(msg)
	case fileReadMsg:
		return m.handleFileRead(msg)
	case fileCreatedMsg:
		return m.handleFileCreated(msg)
	case fileDeletedMsg:
		return m.handleFileDeleted(msg)
	case savedMsg:
		return m.handleSaved(msg)
	case execMsg:
		return m.handleExec(msg)

	case autosaveTickMsg:
		if msg.gen != m.autosaveGen {
			return m, nil
		}
		// The file must still be the one the timer was armed for.
		if !m.state.Autosave || msg.path != m.session.CurrentFile || !m.session.Dirty(msg.path) {
			return m, nil
		}
		return m, m.saveFile(msg.path)

	case statusExpireMsg:
		if msg.gen == m.statusGen {
			m.statusMsg = ""
			m.statusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// ---- key routing ----

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.screen == screenLogin {
		return m.handleLoginKey(msg)
	}

	// Modal overlays swallow everything else while open
	if m.overlays.Any() {
		return m.handleOverlayKey(msg)
	}

	if key.Matches(msg, m.keys.Palette) {
		m.openPalette()
		return m, nil
	}

	// Registry shortcuts, with plain-letter suppression while typing
	if c, ok := m.matchCommand(msg); ok {
		cmd := c.Run(&m)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Help) && !m.editableFocus() {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if key.Matches(msg, m.keys.FocusNext) && !m.editableFocus() {
		m.cycleFocus()
		return m, nil
	}

	switch m.focus {
	case focusEditor:
		if m.editor.HandleKey(msg) {
			return m, m.afterEdit()
		}
	case focusExplorer:
		if m.explorer.HandleKey(msg) {
			if f := m.explorer.OpenedFile; f != "" {
				return m, m.openFile(f)
			}
			if p := m.explorer.OpenedProject; p != "" {
				return m, m.openProject(p)
			}
			return m, nil
		}
	case focusOutput:
		if m.output.HandleKey(msg) {
			return m, nil
		}
	}

	if key.Matches(msg, m.keys.Back) {
		m.goBack()
		return m, nil
	}

	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.login.HandleKey(msg)
	if !m.login.Submitted {
		return m, nil
	}
	m.login.Submitted = false
	username, password := m.login.Values()
	return m, m.authenticate(username, password, m.login.RegisterMode())
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := m.overlays.Top()
	consumed, cmd := top.Content.HandleKey(msg)
	if !consumed && msg.Type == tea.KeyEscape {
		m.overlays.Pop()
		return m, cmd
	}

	switch content := top.Content.(type) {
	case *CommandPalette:
		if content.SelectedAction != "" {
			name := content.SelectedAction
			m.overlays.Pop()
			if c, ok := m.commandByName(name); ok {
				return m, tea.Batch(cmd, c.Run(&m))
			}
		}

	case *SearchBar:
		if content.Action != searchNone {
			model, scmd := m.runSearchAction(content)
			return model, tea.Batch(cmd, scmd)
		}

	case *PromptOverlay:
		if content.Submitted {
			content.Submitted = false
			value := content.Value
			id := top.ID
			m.overlays.Pop()
			model, pcmd := m.handlePromptSubmit(id, value)
			return model, tea.Batch(cmd, pcmd)
		}

	case *ConfirmOverlay:
		if content.Confirmed || content.Dismissed {
			id := top.ID
			confirmed := content.Confirmed
			m.overlays.Pop()
			if confirmed {
				return m.handleConfirm(id)
			}
		}
	}

	return m, cmd
}

func (m *Model) cycleFocus() {
	switch m.focus {
	case focusExplorer:
		if m.session.CurrentFile != "" {
			m.focus = focusEditor
		} else if m.outputVisible {
			m.focus = focusOutput
		}
	case focusEditor:
		if m.outputVisible {
			m.focus = focusOutput
		} else {
			m.focus = focusExplorer
		}
	case focusOutput:
		m.focus = focusExplorer
	}
}

func (m *Model) goBack() {
	switch m.focus {
	case focusEditor, focusOutput:
		m.focus = focusExplorer
	}
}

// afterEdit reacts to a buffer change: arm the autosave debounce timer
func (m *Model) afterEdit() tea.Cmd {
	if !m.editor.Edited {
		return nil
	}
	m.editor.Edited = false
	if !m.state.Autosave || m.session.CurrentFile == "" {
		return nil
	}
	m.autosaveGen++
	return scheduleAutosave(m.autosaveGen, m.session.CurrentFile, m.autosaveDelay())
}

// ---- overlays ----

func (m *Model) openPalette() {
	m.overlays.Push(NewOverlay("palette", NewCommandPalette(m), 64, 16))
}

func (m *Model) openSearch() {
	m.overlays.Push(NewOverlay("search", NewSearchBar(m.search.Query()), 56, 5))
}

func (m *Model) promptNewProject() {
	p := NewPromptOverlay("new project", "project name", "", workspace.ValidateProjectName)
	m.overlays.Push(NewOverlay("new-project", p, 50, 5))
}

func (m *Model) promptNewFile() {
	p := NewPromptOverlay("new file", "file path, folders with /", "", workspace.ValidateFileName)
	m.overlays.Push(NewOverlay("new-file", p, 50, 5))
}

func (m *Model) promptRunInput() tea.Cmd {
	p := NewPromptOverlay("run "+m.runTarget(), "stdin for the program (optional)", "", nil)
	m.overlays.Push(NewOverlay("run-input", p, 56, 5))
	return nil
}

func (m *Model) promptDeleteFile(path string) {
	m.pendingDelete = path
	c := NewConfirmOverlay("delete file", "delete "+path+"?")
	m.overlays.Push(NewOverlay("confirm-delete-file", c, 50, 4))
}

func (m *Model) promptDeleteProject() {
	c := NewConfirmOverlay("delete project",
		"delete project "+m.session.CurrentProject+" and all its files?")
	m.overlays.Push(NewOverlay("confirm-delete-project", c, 56, 4))
}

func (m Model) handlePromptSubmit(id, value string) (tea.Model, tea.Cmd) {
	switch id {
	case "new-project":
		return m, m.createProject(value)
	case "new-file":
		return m, m.createFile(value)
	case "run-input":
		return m, m.execute(value)
	}
	return m, nil
}

func (m Model) handleConfirm(id string) (tea.Model, tea.Cmd) {
	switch id {
	case "confirm-delete-file":
		path := m.pendingDelete
		m.pendingDelete = ""
		return m, m.deleteFile(path)
	case "confirm-delete-project":
		return m, m.deleteProject(m.session.CurrentProject)
	}
	return m, nil
}

// runSearchAction applies a search bar action to the current document
func (m Model) runSearchAction(bar *SearchBar) (tea.Model, tea.Cmd) {
	if m.session.CurrentFile == "" {
		bar.Status = "no file open"
		return m, nil
	}
	doc := m.session.CurrentContent()

	// A changed query restarts the scan from the cursor
	from := -1
	if bar.Query() != m.search.Query() {
		m.search.SetQuery(bar.Query())
		from = m.editor.Cursor()
	}

	switch bar.Action {
	case searchFindNext:
		r, ok := m.search.FindNext(doc, from)
		if ok {
			m.editor.SelectRange(r.Start, r.End)
		}
		bar.Status = matchStatus(ok)

	case searchReplaceNext:
		next, cursor, ok := m.search.ReplaceNext(doc, bar.Replacement())
		if ok {
			m.session.Edit(m.session.CurrentFile, next)
			m.editor.SetCursor(cursor)
			m.editor.Edited = true
		}
		bar.Status = matchStatus(ok)

	case searchReplaceAll:
		next, count, ok := m.search.ReplaceAll(doc, bar.Replacement())
		if ok {
			m.session.Edit(m.session.CurrentFile, next)
			m.editor.SetCursor(0)
			m.editor.Edited = true
		}
		bar.Status = replaceAllStatus(count)
	}
	bar.Action = searchNone

	return m, m.afterEdit()
}

// ---- auth ----

type loginMsg struct {
	register bool
	token    string
	err      error
}

func (m *Model) authenticate(username, password string, register bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		if register {
			if err := client.Register(ctx, username, password); err != nil {
				return loginMsg{register: true, err: err}
			}
		}
		token, err := client.Login(ctx, username, password)
		return loginMsg{register: register, token: token, err: err}
	}
}

func (m Model) handleLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.login.SetError(msg.err.Error())
		return m, nil
	}

	m.state.Token = msg.token
	if err := SaveUIState(m.state); err != nil {
		m.logger.Warnw("persist state", "err", err)
	}

	m.screen = screenMain
	m.focus = focusExplorer
	m.loadGen++
	return m, m.fetchProjects()
}

// logout tears the session down and returns to the login screen. message,
// when non-empty, is shown on the form.
func (m *Model) logout(message string) tea.Cmd {
	m.client.SetToken("")
	m.state.Token = ""
	if err := SaveUIState(m.state); err != nil {
		m.logger.Warnw("persist state", "err", err)
	}

	m.loadGen++
	m.session.Reset()
	m.saving = make(map[string]string)
	m.saveAgain = make(map[string]bool)
	m.pendingOpen = ""
	m.overlays = NewOverlayStack(m.width, m.height)
	m.explorer.SetProjects(nil)
	m.explorer.ResetTree()
	m.output.Clear()
	m.outputVisible = false
	m.focus = focusExplorer

	m.screen = screenLogin
	m.login = NewLoginForm()
	if message != "" {
		m.login.SetError(message)
	}
	return nil
}

// apiFailure reports a request error on the status bar, or tears down the
// session when the token was rejected.
func (m *Model) apiFailure(what string, err error) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		m.logger.Infow("session expired", "during", what)
		return m.logout("session expired, please log in again")
	}
	m.logger.Warnw(what, "err", err)
	m.setStatus(what+": "+err.Error(), true)
	return expireStatus(m.statusGen, statusLifetime)
}

// ---- projects ----

type projectsMsg struct {
	gen      int
	projects []string
	err      error
}

type projectCreatedMsg struct {
	name string
	err  error
}

type projectDeletedMsg struct {
	name string
	err  error
}

func (m *Model) fetchProjects() tea.Cmd {
	gen := m.loadGen
	client := m.client
	return func() tea.Msg {
		projects, err := client.Projects(context.Background())
		return projectsMsg{gen: gen, projects: projects, err: err}
	}
}

func (m Model) handleProjects(msg projectsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	if msg.err != nil {
		return m, m.apiFailure("load projects", msg.err)
	}
	m.explorer.SetProjects(msg.projects)
	return m, nil
}

func (m *Model) createProject(name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.CreateProject(context.Background(), name)
		return projectCreatedMsg{name: name, err: err}
	}
}

func (m Model) handleProjectCreated(msg projectCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.apiFailure("create project", msg.err)
	}
	m.setStatus("created "+msg.name, false)
	return m, tea.Batch(m.openProject(msg.name), expireStatus(m.statusGen, statusLifetime))
}

func (m *Model) deleteProject(name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteProject(context.Background(), name)
		return projectDeletedMsg{name: name, err: err}
	}
}

func (m Model) handleProjectDeleted(msg projectDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.apiFailure("delete project", msg.err)
		}
		// Refresh the list even on failure so local state resyncs with
		// whatever the server actually did.
		return m, tea.Batch(m.apiFailure("delete project", msg.err), m.fetchProjects())
	}
	m.setStatus("deleted "+msg.name, false)
	return m, tea.Batch(m.leaveProject(), expireStatus(m.statusGen, statusLifetime))
}

// openProject switches the session to a project and loads its file list and
// run config under a fresh generation.
func (m *Model) openProject(name string) tea.Cmd {
	m.loadGen++
	m.autosaveGen++
	m.session.ResetProject(name)
	m.saving = make(map[string]string)
	m.saveAgain = make(map[string]bool)
	m.pendingOpen = ""
	m.explorer.ResetTree()
	m.editor.SyncTab("")
	m.output.Clear()
	m.focus = focusExplorer
	return tea.Batch(m.fetchFiles(), m.fetchRunConfig())
}

// leaveProject returns to the project list
func (m *Model) leaveProject() tea.Cmd {
	m.loadGen++
	m.autosaveGen++
	m.session.ResetProject("")
	m.saving = make(map[string]string)
	m.saveAgain = make(map[string]bool)
	m.pendingOpen = ""
	m.explorer.ResetTree()
	m.editor.SyncTab("")
	m.output.Clear()
	m.outputVisible = false
	m.focus = focusExplorer
	return m.fetchProjects()
}

// ---- files ----

type filesMsg struct {
	gen   int
	files []string
	err   error
}

type runConfigMsg struct {
	gen      int
	mainFile string
	err      error
}

type runConfigSetMsg struct {
	path string
	err  error
}

type fileReadMsg struct {
	gen     int
	path    string
	content string
	err     error
}

type fileCreatedMsg struct {
	gen  int
	path string
	err  error
}

type fileDeletedMsg struct {
	gen  int
	path string
	err  error
}

func (m *Model) fetchFiles() tea.Cmd {
	gen := m.loadGen
	client := m.client
	project := m.session.CurrentProject
	return func() tea.Msg {
		files, err := client.Files(context.Background(), project)
		return filesMsg{gen: gen, files: files, err: err}
	}
}

func (m Model) handleFiles(msg filesMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	if msg.err != nil {
		return m, m.apiFailure("load files", msg.err)
	}
	m.session.Files = msg.files
	m.explorer.Rebuild()
	return m, nil
}

func (m *Model) fetchRunConfig() tea.Cmd {
	gen := m.loadGen
	client := m.client
	project := m.session.CurrentProject
	return func() tea.Msg {
		mainFile, err := client.RunConfig(context.Background(), project)
		return runConfigMsg{gen: gen, mainFile: mainFile, err: err}
	}
}

func (m Model) handleRunConfig(msg runConfigMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	if msg.err != nil {
		return m, m.apiFailure("load run config", msg.err)
	}
	m.session.RunConfigFile = msg.mainFile
	return m, nil
}

func (m *Model) setMainFile(path string) tea.Cmd {
	client := m.client
	project := m.session.CurrentProject
	return func() tea.Msg {
		err := client.SetRunConfig(context.Background(), project, path)
		return runConfigSetMsg{path: path, err: err}
	}
}

func (m Model) handleRunConfigSet(msg runConfigSetMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.apiFailure("set main file", msg.err)
	}
	m.session.RunConfigFile = msg.path
	if msg.path == "" {
		m.setStatus("run config cleared", false)
	} else {
		m.setStatus("main file: "+msg.path, false)
	}
	return m, expireStatus(m.statusGen, statusLifetime)
}

// openFile brings a file into the editor, from cache when possible
func (m *Model) openFile(path string) tea.Cmd {
	prev := m.session.CurrentFile
	if m.session.OpenCached(path) {
		m.pendingOpen = ""
		m.editor.SyncTab(prev)
		m.focus = focusEditor
		return nil
	}

	m.pendingOpen = path
	gen := m.loadGen
	client := m.client
	project := m.session.CurrentProject
	return func() tea.Msg {
		content, err := client.ReadFile(context.Background(), project, path)
		return fileReadMsg{gen: gen, path: path, content: content, err: err}
	}
}

func (m Model) handleFileRead(msg fileReadMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	if msg.err != nil {
		if m.pendingOpen == msg.path {
			m.pendingOpen = ""
		}
		return m, m.apiFailure("open "+msg.path, msg.err)
	}

	// The user may have opened another file while this read was out. Keep
	// the content cached but only switch tabs for the newest request.
	if m.pendingOpen != msg.path {
		m.session.CacheFile(msg.path, msg.content)
		return m, nil
	}
	m.pendingOpen = ""

	prev := m.session.CurrentFile
	m.session.SeedFile(msg.path, msg.content)
	m.editor.SyncTab(prev)
	m.focus = focusEditor
	return m, nil
}

// createFile makes an empty file on the server, then opens it
func (m *Model) createFile(path string) tea.Cmd {
	gen := m.loadGen
	client := m.client
	project := m.session.CurrentProject
	return func() tea.Msg {
		err := client.SaveFile(context.Background(), project, path, "")
		return fileCreatedMsg{gen: gen, path: path, err: err}
	}
}

func (m Model) handleFileCreated(msg fileCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	if msg.err != nil {
		return m, m.apiFailure("create "+msg.path, msg.err)
	}

	if !m.session.HasFile(msg.path) {
		m.session.Files = append(m.session.Files, msg.path)
	}
	prev := m.session.CurrentFile
	m.pendingOpen = ""
	m.session.SeedFile(msg.path, "")
	m.explorer.Rebuild()
	m.explorer.RevealFile(msg.path)
	m.editor.SyncTab(prev)
	m.focus = focusEditor
	return m, nil
}

func (m *Model) deleteFile(path string) tea.Cmd {
	gen := m.loadGen
	client := m.client
	project := m.session.CurrentProject
	return func() tea.Msg {
		err := client.DeleteFile(context.Background(), project, path)
		return fileDeletedMsg{gen: gen, path: path, err: err}
	}
}

func (m Model) handleFileDeleted(msg fileDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.apiFailure("delete "+msg.path, msg.err)
		}
		return m, tea.Batch(m.apiFailure("delete "+msg.path, msg.err), m.fetchFiles())
	}

	prev := m.session.CurrentFile
	wasRunConfig := m.session.PurgeFile(msg.path)
	for i, f := range m.session.Files {
		if f == msg.path {
			m.session.Files = append(m.session.Files[:i], m.session.Files[i+1:]...)
			break
		}
	}
	delete(m.saving, msg.path)
	delete(m.saveAgain, msg.path)
	m.editor.Forget(msg.path)
	if prev == msg.path {
		m.editor.SyncTab("")
	}
	m.explorer.Rebuild()
	m.setStatus("deleted "+msg.path, false)

	cmds := []tea.Cmd{expireStatus(m.statusGen, statusLifetime)}
	if wasRunConfig {
		cmds = append(cmds, m.setMainFile(""))
	}
	return m, tea.Batch(cmds...)
}

// ---- saving ----

type savedMsg struct {
	gen  int
	path string
	sent string
	err  error
}

// saveFile writes the file's current content. While a save is in flight
// further requests for the same file are deferred until it returns, so at
// most one save per file is ever outstanding.
func (m *Model) saveFile(path string) tea.Cmd {
	content, ok := m.session.Contents[path]
	if !ok {
		return nil
	}
	if len(content) > workspace.MaxSaveBytes {
		m.setStatus("file too large to save", true)
		return expireStatus(m.statusGen, statusLifetime)
	}
	if _, inFlight := m.saving[path]; inFlight {
		m.saveAgain[path] = true
		return nil
	}

	m.saving[path] = content
	gen := m.loadGen
	client := m.client
	project := m.session.CurrentProject
	return func() tea.Msg {
		err := client.SaveFile(context.Background(), project, path, content)
		return savedMsg{gen: gen, path: path, sent: content, err: err}
	}
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		// The project this save belonged to is gone; nothing to record.
		return m, nil
	}
	delete(m.saving, msg.path)

	if msg.err != nil {
		delete(m.saveAgain, msg.path)
		return m, m.apiFailure("save "+msg.path, msg.err)
	}

	// Record the payload that was actually sent. Edits made while the
	// request was out keep the file dirty and trigger another save.
	m.session.MarkSaved(msg.path, msg.sent)
	m.lastSavedAt = time.Now()

	if m.saveAgain[msg.path] {
		delete(m.saveAgain, msg.path)
		return m, m.saveFile(msg.path)
	}
	return m, nil
}

// ---- execution ----

type execMsg struct {
	gen    int
	output string
	err    error
}

// execute flushes the run target if dirty, then runs it with the given stdin.
// The flush and the run are sequenced so the backend executes the content
// that was just saved, not whatever it had before.
func (m *Model) execute(input string) tea.Cmd {
	target := m.runTarget()
	if target == "" {
		return nil
	}
	if !m.session.HasFile(target) {
		// A run config can point at a file deleted since it was set.
		m.setStatus("run target "+target+" no longer exists", true)
		return expireStatus(m.statusGen, statusLifetime)
	}

	var cmds []tea.Cmd
	if m.session.Dirty(target) {
		if save := m.saveFile(target); save != nil {
			cmds = append(cmds, save)
		}
	}

	m.output.SetRunning(target)
	m.outputVisible = true
	m.focus = focusOutput

	gen := m.loadGen
	client := m.client
	project := m.session.CurrentProject
	cmds = append(cmds, func() tea.Msg {
		out, err := client.Execute(context.Background(), project, target, input)
		return execMsg{gen: gen, output: out, err: err}
	})
	return tea.Sequence(cmds...)
}

func (m Model) handleExec(msg execMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.apiFailure("run", msg.err)
		}
		m.output.SetError(msg.err.Error())
		return m, nil
	}
	m.output.SetOutput(msg.output)
	return m, nil
}

// ---- small commands ----

func (m *Model) toggleOutput() {
	m.outputVisible = !m.outputVisible
	if !m.outputVisible && m.focus == focusOutput {
		m.goBack()
	}
}

func (m *Model) toggleAutosave() tea.Cmd {
	m.state.Autosave = !m.state.Autosave
	if err := SaveUIState(m.state); err != nil {
		m.logger.Warnw("persist state", "err", err)
	}
	if m.state.Autosave {
		m.setStatus("autosave on", false)
	} else {
		m.setStatus("autosave off", false)
	}
	return expireStatus(m.statusGen, statusLifetime)
}

func (m *Model) toggleTheme() tea.Cmd {
	m.state.Theme = NextTheme(m.state.Theme)
	m.theme = ThemeFor(m.state.Theme, m.profile)
	if err := SaveUIState(m.state); err != nil {
		m.logger.Warnw("persist state", "err", err)
	}
	return nil
}

func (m *Model) closeCurrentTab() {
	prev := m.session.CurrentFile
	if prev == "" {
		return
	}
	m.session.CloseTab(prev)
	m.editor.SyncTab("")
	if m.session.CurrentFile == "" {
		m.focus = focusExplorer
	}
}

func (m *Model) cycleTab(dir int) {
	open := m.session.OpenFiles
	if len(open) < 2 {
		return
	}
	current := 0
	for i, f := range open {
		if f == m.session.CurrentFile {
			current = i
			break
		}
	}
	next := (current + dir + len(open)) % len(open)
	prev := m.session.CurrentFile
	m.session.CurrentFile = open[next]
	m.editor.SyncTab(prev)
}

// ---- view ----

func (m Model) View() string {
	w, h := m.width, m.height
	if w < 20 {
		w = 80
	}
	if h < 5 {
		h = 24
	}

	if m.screen == screenLogin {
		return m.login.Render(w, h, m.theme, m.cfg.ServerURL)
	}

	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = 4
	}

	tabBar := m.renderTabBar(w)
	statusBar := m.renderStatusBar(w)

	mainH := h - helpHeight - 2 // Tab bar and status bar
	outputH := 0
	if m.outputVisible {
		outputH = mainH / 3
		if outputH < 5 {
			outputH = 5
		}
	}
	editorRowH := mainH - outputH

	explorerW := w / 4
	if explorerW < 20 {
		explorerW = 20
	}
	if explorerW > 36 {
		explorerW = 36
	}
	editorW := w - explorerW

	explorerTitle := "projects"
	if m.session.CurrentProject != "" {
		explorerTitle = m.session.CurrentProject
	}
	explorerBox := m.renderBox(explorerTitle,
		m.explorer.Render(explorerW-2, editorRowH-2, m.theme, m.focus == focusExplorer),
		explorerW-2, editorRowH-2, m.focus == focusExplorer)

	editorTitle := "editor"
	if m.session.CurrentFile != "" {
		editorTitle = m.session.CurrentFile
		if m.session.Dirty(m.session.CurrentFile) {
			editorTitle = "* " + editorTitle
		}
	}
	editorBox := m.renderBox(editorTitle,
		m.editor.Render(editorW-2, editorRowH-2, m.theme),
		editorW-2, editorRowH-2, m.focus == focusEditor)

	base := tabBar + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, explorerBox, editorBox)

	if m.outputVisible {
		outputBox := m.renderBox(m.output.Title(),
			m.output.Render(w-2, outputH-2, m.theme),
			w-2, outputH-2, m.focus == focusOutput)
		base += "\n" + outputBox
	}

	base += "\n" + statusBar

	m.help.Width = w
	base += "\n" + m.help.View(m.keys)

	return m.overlays.Render(base, m.theme)
}

// renderTabBar draws the open-file tabs with dirty markers
func (m Model) renderTabBar(w int) string {
	if len(m.session.OpenFiles) == 0 {
		return m.theme.dimStyle().Render(" " + strings.Repeat("─", w-2))
	}

	var parts []string
	for _, path := range m.session.OpenFiles {
		name := path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			name = path[i+1:]
		}
		label := " " + name
		if m.session.Dirty(path) {
			label += " ●"
		}
		label += " "

		if path == m.session.CurrentFile {
			parts = append(parts, m.theme.highlightStyle().Render(label))
		} else {
			parts = append(parts, m.theme.dimStyle().Render(label))
		}
	}
	// Tabs past the right edge are clipped by the terminal; they stay
	// reachable by cycling.
	return strings.Join(parts, "│")
}

// renderBox draws a bordered region with its title in the top border
func (m Model) renderBox(title, content string, w, h int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.Accent
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(borderColor).Bold(true)

	titleRunes := []rune(title)
	if len(titleRunes) > w-4 && w > 4 {
		title = string(titleRunes[:w-5]) + "…"
		titleRunes = []rune(title)
	}
	dashes := w - len(titleRunes) - 3
	if dashes < 0 {
		dashes = 0
	}

	topBorder := borderStyle.Render("╭─ ") + titleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", dashes)+"╮")
	bottomBorder := borderStyle.Render("╰" + strings.Repeat("─", w) + "╯")

	contentLines := strings.Split(content, "\n")
	for len(contentLines) < h {
		contentLines = append(contentLines, strings.Repeat(" ", w))
	}

	var sb strings.Builder
	sb.WriteString(topBorder)
	sb.WriteString("\n")
	for i := 0; i < h; i++ {
		sb.WriteString(borderStyle.Render("│"))
		sb.WriteString(contentLines[i])
		sb.WriteString(borderStyle.Render("│"))
		sb.WriteString("\n")
	}
	sb.WriteString(bottomBorder)
	return sb.String()
}
