package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/campaign-engine/pkg/combat"
	"github.com/jwebster45206/campaign-engine/pkg/resolver"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

const PlaceHolderText = "What do you do?"

var titleCaser = cases.Title(language.AmericanEnglish)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *state.GameState
	snapshot     *state.Snapshot
	log          []string
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Campaign selection state
	showCampaignModal bool
	campaigns         []string
	campaignMap       map[string]string
	selectedCampaign  int
	loadingCampaigns  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type campaignsLoadedMsg struct {
	campaigns   []string
	campaignMap map[string]string
	err         error
}

type sessionCreatedMsg struct {
	session *state.GameState
	err     error
}

type actionMsg struct {
	response *ActionResponse
	err      error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	nodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narrativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	combatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")) // salmon

	checkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // lavender

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:            cfg,
		client:            client,
		textarea:          ta,
		logViewport:       logVp,
		metaViewport:      metaVp,
		ready:             false,
		showCampaignModal: true,
		loadingCampaigns:  true,
		selectedCampaign:  0,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showCampaignModal {
		return m.loadCampaigns()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showCampaignModal {
		return m.updateCampaignModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if handled, model, cmd := m.handleLocalCommand(input); handled {
				return model, cmd
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.log = append(m.log, userStyle.Render("> ")+input)
			m.writeLogContent()

			intent := parseIntent(input)
			return m, tea.Batch(m.sendAction(intent), progressTick())
		}

	case actionMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.log = append(m.log, errorStyle.Render("Error: "+msg.err.Error()))
		} else {
			if msg.response.Snapshot != nil {
				m.snapshot = msg.response.Snapshot
			}
			m.log = append(m.log, m.renderOutcome(msg.response.Outcome)...)
			m.metaViewport.SetContent(m.writeMetadata())
		}
		m.writeLogContent()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(logWidth - 4)
}

// parseIntent turns a typed command into an engine intent. Anything
// that isn't a recognized verb is sent as free text for the engine to
// interpret.
func parseIntent(input string) resolver.Intent {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return resolver.Intent{Kind: resolver.KindCustom, Text: input}
	}

	verb := strings.ToLower(fields[0])
	rest := fields[1:]

	switch verb {
	case "look", "l", "examine", "inspect", "x":
		return resolver.Intent{Kind: resolver.KindExamine, Target: asID(rest)}
	case "go", "move", "g":
		return resolver.Intent{Kind: resolver.KindMove, ExitKey: asID(rest)}
	case "talk", "greet":
		if len(rest) > 0 && strings.EqualFold(rest[0], "to") {
			rest = rest[1:]
		}
		return resolver.Intent{Kind: resolver.KindTalkTo, NPCID: asID(rest)}
	case "ask":
		// ask <npc> about <topic>
		for i, w := range rest {
			if strings.EqualFold(w, "about") {
				return resolver.Intent{
					Kind:  resolver.KindTalkTo,
					NPCID: asID(rest[:i]),
					Topic: asID(rest[i+1:]),
				}
			}
		}
		return resolver.Intent{Kind: resolver.KindTalkTo, NPCID: asID(rest)}
	case "use":
		return resolver.Intent{Kind: resolver.KindUseItem, ItemID: asID(rest)}
	case "act":
		return resolver.Intent{Kind: resolver.KindAction, ActionID: asID(rest)}
	case "attack", "fight", "hit":
		return resolver.Intent{Kind: resolver.KindAttack, TargetID: asID(rest)}
	case "do":
		return resolver.Intent{Kind: resolver.KindCustom, Text: strings.Join(rest, " ")}
	default:
		return resolver.Intent{Kind: resolver.KindCustom, Text: input}
	}
}

// asID joins words into the snake_case form campaign ids use.
func asID(words []string) string {
	return strings.ToLower(strings.Join(words, "_"))
}

// renderOutcome turns a decided outcome into log lines.
func (m *ConsoleUI) renderOutcome(o *resolver.Outcome) []string {
	if o == nil {
		return nil
	}
	var lines []string

	if o.Move != nil {
		lines = append(lines, nodeStyle.Render(prettify(o.Move.To)))
		lines = append(lines, narrativeStyle.Render(o.Move.Description))
		if o.Move.Warning != "" {
			lines = append(lines, warningStyle.Render(o.Move.Warning))
		}
		if o.Move.EncounterID != "" {
			lines = append(lines, combatStyle.Render("Combat begins!"))
		}
	}

	if o.Talk != nil {
		header := nodeStyle.Render(o.Talk.Name) + promptStyle.Render(" ("+o.Talk.Attitude+")")
		lines = append(lines, header)
		if o.Talk.Greeting != "" {
			lines = append(lines, narrativeStyle.Render(o.Talk.Greeting))
		}
		if o.Talk.Ask != nil {
			if o.Talk.Ask.Shared {
				lines = append(lines, narrativeStyle.Render(o.Talk.Ask.Information))
			} else {
				lines = append(lines, promptStyle.Render(o.Talk.Name+" has nothing to say about that."))
			}
		}
	}

	if o.Check != nil {
		lines = append(lines, checkStyle.Render(o.Check.String()))
	}

	if o.Action != nil {
		if o.Action.Prompt != "" {
			lines = append(lines, narrativeStyle.Render(o.Action.Prompt))
		}
		for _, item := range o.Action.ItemsGained {
			lines = append(lines, promptStyle.Render("Gained: "+prettify(item)))
		}
		for _, item := range o.Action.ItemsLost {
			lines = append(lines, promptStyle.Render("Lost: "+prettify(item)))
		}
		if o.Action.QuestStarted != "" {
			lines = append(lines, titleStyle.Render("New quest: "+prettify(o.Action.QuestStarted)))
		}
		if o.Action.XPGained > 0 {
			lines = append(lines, promptStyle.Render(fmt.Sprintf("XP gained: %d", o.Action.XPGained)))
		}
	}

	if o.Examine != nil && o.Examine.Description != "" {
		lines = append(lines, narrativeStyle.Render(o.Examine.Description))
	}

	if o.Attack != nil {
		lines = append(lines, renderAttack(*o.Attack, "You"))
	}
	for _, ea := range o.EnemyAttacks {
		lines = append(lines, renderAttack(ea, prettify(ea.AttackerID)))
	}

	switch o.CombatPhase {
	case combat.PhaseVictory:
		lines = append(lines, titleStyle.Render("Victory!"))
		if o.Reward != nil {
			if o.Reward.XP > 0 {
				lines = append(lines, promptStyle.Render(fmt.Sprintf("XP gained: %d", o.Reward.XP)))
			}
			if o.Reward.Gold > 0 {
				lines = append(lines, promptStyle.Render(fmt.Sprintf("Gold gained: %d", o.Reward.Gold)))
			}
			for _, item := range o.Reward.Items {
				lines = append(lines, promptStyle.Render("Loot: "+prettify(item)))
			}
		}
	case combat.PhaseDefeat:
		lines = append(lines, errorStyle.Render("You have fallen."))
	case combat.PhaseFled:
		lines = append(lines, warningStyle.Render("You flee the fight."))
	}

	if o.Kind == "rejected" {
		lines = append(lines, warningStyle.Render(o.Prompt))
	} else if o.Prompt != "" && o.Move == nil && o.Action == nil {
		lines = append(lines, promptStyle.Render(o.Prompt))
	}

	return lines
}

func renderAttack(a combat.AttackOutcome, attacker string) string {
	target := prettify(a.TargetID)
	if target == "Player" {
		target = "you"
	}
	switch {
	case a.Fumble:
		return combatStyle.Render(fmt.Sprintf("%s fumble%s the attack on %s.", attacker, verbS(attacker), target))
	case !a.Hit:
		return combatStyle.Render(fmt.Sprintf("%s miss%s %s (%d vs AC %d).", attacker, verbES(attacker), target, a.Total, a.TargetAC))
	case a.Critical:
		return combatStyle.Render(fmt.Sprintf("%s critically hit%s %s for %d damage!", attacker, verbS(attacker), target, a.Damage))
	default:
		s := fmt.Sprintf("%s hit%s %s for %d damage (%d vs AC %d).", attacker, verbS(attacker), target, a.Damage, a.Total, a.TargetAC)
		if a.TargetDown {
			s += " " + titleCaser.String(target) + " goes down!"
		}
		return combatStyle.Render(s)
	}
}

func verbS(subject string) string {
	if subject == "You" {
		return ""
	}
	return "s"
}

func verbES(subject string) string {
	if subject == "You" {
		return ""
	}
	return "es"
}

// prettify turns a snake_case id into display text.
func prettify(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6
	if logWidth < 20 {
		logWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("CAMPAIGN ENGINE") + "\n\n")
	content.WriteString("Type commands below to play. /help lists them.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth-6)) + "\n\n")

	for _, line := range m.log {
		content.WriteString(wordwrap.String(line, logWidth) + "\n")
	}

	if m.loading {
		content.WriteString("\n" + m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	if m.session == nil {
		content.WriteString("No session.\n")
		return content.String()
	}

	content.WriteString("Session:\n")
	content.WriteString(m.session.ID.String()[:8] + "...\n\n")

	snap := m.snapshot
	if snap != nil {
		content.WriteString("Campaign:\n")
		content.WriteString(snap.CampaignTitle + "\n\n")

		content.WriteString("Location:\n")
		content.WriteString(snap.NodeName + "\n\n")

		content.WriteString(fmt.Sprintf("HP: %d/%d\n\n", snap.PlayerHP, snap.PlayerMaxHP))

		if snap.Combat != nil {
			content.WriteString(combatStyle.Render("IN COMBAT") + "\n")
			content.WriteString(fmt.Sprintf("Round %d\n", snap.Combat.Round))
			for _, e := range snap.Combat.Enemies {
				content.WriteString("• " + e + "\n")
			}
			content.WriteString("\n")
		}

		if len(snap.Exits) > 0 {
			content.WriteString("Exits:\n")
			for _, e := range snap.Exits {
				content.WriteString("• " + e.Key + "\n")
			}
			content.WriteString("\n")
		}

		if len(snap.NPCs) > 0 {
			content.WriteString("Present:\n")
			for _, n := range snap.NPCs {
				content.WriteString(fmt.Sprintf("• %s (%s)\n", n.Name, n.Attitude))
			}
			content.WriteString("\n")
		}

		if len(snap.ActiveQuests) > 0 {
			content.WriteString("Quests:\n")
			for _, q := range snap.ActiveQuests {
				content.WriteString("• " + q.Name + "\n")
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /inventory: Items\n")

	return content.String()
}

func (m ConsoleUI) handleLocalCommand(input string) (bool, tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/help", "help":
		m.log = append(m.log,
			titleStyle.Render("Commands:"),
			"• look / examine <target> - Look around or at something",
			"• go <exit> - Travel through an exit",
			"• talk to <npc> - Greet an NPC",
			"• ask <npc> about <topic> - Ask about something",
			"• use <item> - Use an item you carry",
			"• act <action> - Perform a named action here",
			"• attack <target> - Fight",
			"• /inventory - What you carry",
			"• Anything else is attempted as a free action",
		)
		m.textarea.Reset()
		m.writeLogContent()
		return true, m, nil

	case "/inventory", "inventory", "i":
		m.log = append(m.log, titleStyle.Render("Inventory:"))
		if m.session == nil || len(m.session.Character.Inventory) == 0 {
			m.log = append(m.log, "You carry nothing.")
		} else {
			for item, qty := range m.session.Character.Inventory {
				m.log = append(m.log, fmt.Sprintf("• %s x%d", prettify(item), qty))
			}
			if gold := m.session.Character.Currency.Gold; gold > 0 {
				m.log = append(m.log, fmt.Sprintf("• %d gold", gold))
			}
		}
		m.textarea.Reset()
		m.writeLogContent()
		return true, m, nil

	case "quit", "/quit":
		m.showQuitModal = true
		m.textarea.Reset()
		return true, m, nil
	}
	return false, m, nil
}

func (m ConsoleUI) sendAction(intent resolver.Intent) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendIntent(m.client, m.config.APIBaseURL, m.session.ID, intent)
		return actionMsg{resp, err}
	}
}

func (m ConsoleUI) loadCampaigns() tea.Cmd {
	return func() tea.Msg {
		titles, campaignMap, err := listCampaigns(m.client, m.config.APIBaseURL)
		return campaignsLoadedMsg{titles, campaignMap, err}
	}
}

func (m ConsoleUI) createSessionForCampaign(campaignFile string) tea.Cmd {
	return func() tea.Msg {
		character, err := loadCharacter(m.config.CharacterFile)
		if err != nil {
			return sessionCreatedMsg{nil, err}
		}
		gs, err := createSession(m.client, m.config.APIBaseURL, campaignFile, character)
		return sessionCreatedMsg{gs, err}
	}
}

func (m ConsoleUI) updateCampaignModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case campaignsLoadedMsg:
		m.loadingCampaigns = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.campaigns = msg.campaigns
			m.campaignMap = msg.campaignMap
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.showCampaignModal = false
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.textarea.Focus()
		m.ready = true
		m.loading = true
		// Open with a look so the starting node gets described.
		return m, tea.Batch(m.sendAction(resolver.Intent{Kind: resolver.KindExamine}), progressTick(), textarea.Blink)

	case tea.KeyMsg:
		if m.loadingCampaigns || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedCampaign > 0 {
				m.selectedCampaign--
			}
		case tea.KeyDown:
			if m.selectedCampaign < len(m.campaigns)-1 {
				m.selectedCampaign++
			}
		case tea.KeyEnter:
			if len(m.campaigns) > 0 {
				title := m.campaigns[m.selectedCampaign]
				m.loading = true
				return m, m.createSessionForCampaign(m.campaignMap[title])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showCampaignModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your session is saved and can be resumed later.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCampaignModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingCampaigns {
		content.WriteString(modalTitleStyle.Render("Loading Campaigns..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load campaigns: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Starting Session..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Campaign"))
		content.WriteString("\n\n")

		for i, title := range m.campaigns {
			if i == m.selectedCampaign {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", title)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", title)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showCampaignModal {
		return m.renderCampaignModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar draws an animated bar while a request is in flight.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
