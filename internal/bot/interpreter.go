package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"seriestracker/internal/models"
	"seriestracker/internal/tracker"
)

// Callback token grammar: "<action>:<series id>" for per-series buttons,
// bare action words for menu buttons.
const (
	actionAdd      = "add"
	actionList     = "list"
	actionFinished = "finished"

	actionEpisode = "episode"
	actionSeason  = "season"
	actionFinish  = "finish"
	actionDelete  = "delete"
)

const (
	keywordAdd     = "начать"
	keywordSeason  = "сезон"
	keywordEpisode = "серия"
)

// Interpreter turns incoming chat text and button callbacks into tracking
// engine calls and formats the results as replies. Text rules are evaluated
// top to bottom; the first match wins.
type Interpreter struct {
	tracker  *tracker.Service
	sessions *Sessions
	rules    []rule
	logger   *logrus.Logger
}

type rule struct {
	match  func(text string) bool
	handle func(chatID int64, text string) []Reply
}

// NewInterpreter creates a new command interpreter
func NewInterpreter(trackerSvc *tracker.Service, logger *logrus.Logger) *Interpreter {
	in := &Interpreter{
		tracker:  trackerSvc,
		sessions: NewSessions(),
		logger:   logger,
	}

	in.rules = []rule{
		{matchAddCommand, in.handleAdd},
		{containsKeyword(keywordSeason), in.handleSetSeason},
		{containsKeyword(keywordEpisode), in.handleSetEpisode},
		{oneOf("/start", "старт"), in.handleStart},
		{oneOf("/menu", "меню"), in.handleMenu},
		{oneOf("/list", "список"), in.handleList},
		{oneOf("/commands", "команды"), in.handleCommands},
		{oneOf("/finished", "просмотренные"), in.handleFinished},
	}

	return in
}

// HandleMessage processes one plain text message from a chat
func (in *Interpreter) HandleMessage(chatID int64, text string) []Reply {
	if in.sessions.TakeAwaitingName(chatID) {
		series, err := in.tracker.AddSeries(text, chatID)
		if err != nil {
			return in.errorReply(chatID, err)
		}
		return []Reply{textReply(chatID, msgSeriesAdded(series.Name))}
	}

	for _, r := range in.rules {
		if r.match(text) {
			return r.handle(chatID, text)
		}
	}

	return []Reply{textReply(chatID, msgUnknown)}
}

// HandleCallback processes one button callback token from a chat
func (in *Interpreter) HandleCallback(chatID int64, data string) []Reply {
	action, idPart, hasID := strings.Cut(data, ":")

	if hasID {
		id, err := strconv.ParseUint(idPart, 10, 64)
		if err != nil {
			return []Reply{textReply(chatID, msgUnknown)}
		}
		return in.handleSeriesAction(chatID, action, id)
	}

	switch action {
	case actionAdd:
		in.sessions.AwaitName(chatID)
		return []Reply{textReply(chatID, msgEnterName)}
	case actionList:
		return in.handleList(chatID, data)
	case actionFinished:
		return in.handleFinished(chatID, data)
	}

	return []Reply{textReply(chatID, msgUnknown)}
}

// handleSeriesAction dispatches an "<action>:<id>" callback
func (in *Interpreter) handleSeriesAction(chatID int64, action string, id uint64) []Reply {
	switch action {
	case actionEpisode:
		series, err := in.tracker.FindByID(id, chatID)
		if err != nil {
			return in.errorReply(chatID, err)
		}
		if err := in.tracker.SetEpisode(id, chatID, series.Episode+1); err != nil {
			return in.errorReply(chatID, err)
		}
		return []Reply{textReply(chatID, msgEpisodeDone)}

	case actionSeason:
		series, err := in.tracker.FindByID(id, chatID)
		if err != nil {
			return in.errorReply(chatID, err)
		}
		if err := in.tracker.SetSeason(id, chatID, series.Season+1); err != nil {
			return in.errorReply(chatID, err)
		}
		return []Reply{textReply(chatID, msgNewSeason)}

	case actionFinish:
		if err := in.tracker.MarkFinished(id, chatID); err != nil {
			return in.errorReply(chatID, err)
		}
		return []Reply{textReply(chatID, msgSeriesOver)}

	case actionDelete:
		if err := in.tracker.DeleteSeries(id, chatID); err != nil {
			return in.errorReply(chatID, err)
		}
		return []Reply{textReply(chatID, msgSeriesDeleted)}
	}

	return []Reply{textReply(chatID, msgUnknown)}
}

// handleAdd handles "начать <название>"
func (in *Interpreter) handleAdd(chatID int64, text string) []Reply {
	trimmed := strings.TrimSpace(text)
	name := strings.TrimSpace(trimmed[len(keywordAdd):])
	if name == "" {
		return []Reply{textReply(chatID, msgUnknown)}
	}

	if _, err := in.tracker.AddSeries(name, chatID); err != nil {
		return in.errorReply(chatID, err)
	}
	return []Reply{textReply(chatID, msgAddAccepted)}
}

// handleSetSeason handles "<название> сезон <номер>"
func (in *Interpreter) handleSetSeason(chatID int64, text string) []Reply {
	name, season, err := parseProgress(text, keywordSeason)
	if err != nil {
		return []Reply{textReply(chatID, msgUnknown)}
	}

	series, err := in.tracker.FindByName(name, chatID)
	if err != nil {
		return in.errorReply(chatID, err)
	}
	if err := in.tracker.SetSeason(series.ID, chatID, season); err != nil {
		return in.errorReply(chatID, err)
	}
	return []Reply{textReply(chatID, msgAccepted)}
}

// handleSetEpisode handles "<название> серия <номер>"
func (in *Interpreter) handleSetEpisode(chatID int64, text string) []Reply {
	name, episode, err := parseProgress(text, keywordEpisode)
	if err != nil {
		return []Reply{textReply(chatID, msgUnknown)}
	}

	series, err := in.tracker.FindByName(name, chatID)
	if err != nil {
		return in.errorReply(chatID, err)
	}
	if err := in.tracker.SetEpisode(series.ID, chatID, episode); err != nil {
		return in.errorReply(chatID, err)
	}
	return []Reply{textReply(chatID, msgAccepted)}
}

func (in *Interpreter) handleStart(chatID int64, _ string) []Reply {
	return []Reply{
		textReply(chatID, msgGreeting),
		in.menuReply(chatID),
	}
}

func (in *Interpreter) handleMenu(chatID int64, _ string) []Reply {
	return []Reply{in.menuReply(chatID)}
}

func (in *Interpreter) handleCommands(chatID int64, _ string) []Reply {
	return []Reply{textReply(chatID, msgCommands)}
}

// handleList sends one message per in-progress series, each with its own
// action keyboard.
func (in *Interpreter) handleList(chatID int64, _ string) []Reply {
	inProgress, err := in.tracker.ListInProgress(chatID)
	if err != nil {
		return in.errorReply(chatID, err)
	}
	if len(inProgress) == 0 {
		return []Reply{textReply(chatID, msgNoInProgress)}
	}

	replies := make([]Reply, 0, len(inProgress))
	for _, series := range inProgress {
		days, err := in.tracker.WatchDuration(series.ID, chatID)
		if err != nil {
			return in.errorReply(chatID, err)
		}
		replies = append(replies, Reply{
			ChatID:   chatID,
			Text:     formatInProgress(series.Name, series.Season, series.Episode, days),
			Keyboard: seriesKeyboard(series.ID),
		})
	}
	return replies
}

// handleFinished sends the finished series as one aggregated message
func (in *Interpreter) handleFinished(chatID int64, _ string) []Reply {
	finished, err := in.tracker.ListFinished(chatID)
	if err != nil {
		return in.errorReply(chatID, err)
	}
	if len(finished) == 0 {
		return []Reply{textReply(chatID, msgNoFinished)}
	}

	var sb strings.Builder
	sb.WriteString(msgFinishedTitle)
	for _, series := range finished {
		days, err := in.tracker.WatchDuration(series.ID, chatID)
		if err != nil {
			return in.errorReply(chatID, err)
		}
		sb.WriteString(formatFinishedLine(series.Name, series.Season, days))
	}
	return []Reply{textReply(chatID, sb.String())}
}

func (in *Interpreter) menuReply(chatID int64) Reply {
	return Reply{
		ChatID: chatID,
		Text:   msgChooseAction,
		Keyboard: [][]Button{{
			{Label: btnAddSeries, Data: actionAdd},
			{Label: btnInProgress, Data: actionList},
			{Label: btnFinished, Data: actionFinished},
		}},
	}
}

// errorReply converts an engine error into a user-facing message
func (in *Interpreter) errorReply(chatID int64, err error) []Reply {
	switch {
	case errors.Is(err, tracker.ErrNotFound),
		errors.Is(err, tracker.ErrNotFoundOrForbidden),
		errors.Is(err, models.ErrSeriesNotFound):
		return []Reply{textReply(chatID, msgNotFound)}
	case errors.Is(err, tracker.ErrInvalidProgress):
		return []Reply{textReply(chatID, msgUnknown)}
	default:
		in.logger.WithError(err).WithField("chat_id", chatID).Error("Command failed")
		return []Reply{textReply(chatID, msgStorageError)}
	}
}

func seriesKeyboard(id uint64) [][]Button {
	idStr := strconv.FormatUint(id, 10)
	return [][]Button{{
		{Label: btnNextEpisode, Data: actionEpisode + ":" + idStr},
		{Label: btnNextSeason, Data: actionSeason + ":" + idStr},
		{Label: btnFinish, Data: actionFinish + ":" + idStr},
		{Label: btnDelete, Data: actionDelete + ":" + idStr},
	}}
}

// matchAddCommand matches "начать <название>" case-insensitively
func matchAddCommand(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lower, keywordAdd+" ")
}

// containsKeyword matches any text containing the keyword
func containsKeyword(keyword string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, keyword)
	}
}

// oneOf matches an exact menu word, ignoring case and surrounding spaces
func oneOf(words ...string) func(string) bool {
	return func(text string) bool {
		trimmed := strings.ToLower(strings.TrimSpace(text))
		for _, w := range words {
			if trimmed == w {
				return true
			}
		}
		return false
	}
}

// parseProgress splits "<название> <keyword> <номер>" into the series name
// and the trailing number.
func parseProgress(text, keyword string) (string, int, error) {
	idx := strings.Index(text, keyword)
	name := strings.TrimSpace(text[:idx])

	fields := strings.Fields(text[idx+len(keyword):])
	if name == "" || len(fields) == 0 {
		return "", 0, errors.New("malformed progress command")
	}

	number, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return "", 0, errors.New("malformed progress command")
	}
	return name, number, nil
}
