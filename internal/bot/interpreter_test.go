package bot

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"seriestracker/internal/models"
	"seriestracker/internal/tracker"
)

func newTestInterpreter(t *testing.T) (*Interpreter, *tracker.Service) {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := tracker.NewService(db, logger)
	return NewInterpreter(svc, logger), svc
}

func singleReply(t *testing.T, replies []Reply) Reply {
	t.Helper()
	if len(replies) != 1 {
		t.Fatalf("Expected exactly one reply, got %d", len(replies))
	}
	return replies[0]
}

func TestAddCommand(t *testing.T) {
	in, svc := newTestInterpreter(t)

	reply := singleReply(t, in.HandleMessage(1, "начать Dexter"))
	if reply.Text != msgAddAccepted {
		t.Errorf("Expected %q, got %q", msgAddAccepted, reply.Text)
	}
	if reply.ChatID != 1 {
		t.Errorf("Reply addressed to chat %d, expected 1", reply.ChatID)
	}

	series, err := svc.FindByName("Dexter", 1)
	if err != nil {
		t.Fatalf("Series was not added: %v", err)
	}
	if series.ChatID != 1 {
		t.Errorf("Series owned by chat %d, expected 1", series.ChatID)
	}
}

func TestAddCommandCaseInsensitivePrefix(t *testing.T) {
	in, svc := newTestInterpreter(t)

	in.HandleMessage(1, "Начать Декстер")

	if _, err := svc.FindByName("Декстер", 1); err != nil {
		t.Fatalf("Series was not added: %v", err)
	}
}

func TestSeasonCommand(t *testing.T) {
	in, svc := newTestInterpreter(t)
	series, _ := svc.AddSeries("Dexter", 1)

	reply := singleReply(t, in.HandleMessage(1, "Dexter сезон 3"))
	if reply.Text != msgAccepted {
		t.Errorf("Expected %q, got %q", msgAccepted, reply.Text)
	}

	updated, _ := svc.FindByID(series.ID, 1)
	if updated.Season != 3 || updated.Episode != 1 {
		t.Errorf("Expected season 3 episode 1, got season %d episode %d", updated.Season, updated.Episode)
	}
}

func TestEpisodeCommand(t *testing.T) {
	in, svc := newTestInterpreter(t)
	series, _ := svc.AddSeries("Dexter", 1)

	reply := singleReply(t, in.HandleMessage(1, "Dexter серия 17"))
	if reply.Text != msgAccepted {
		t.Errorf("Expected %q, got %q", msgAccepted, reply.Text)
	}

	updated, _ := svc.FindByID(series.ID, 1)
	if updated.Episode != 17 {
		t.Errorf("Expected episode 17, got %d", updated.Episode)
	}
}

func TestSeasonCommandUnknownSeries(t *testing.T) {
	in, _ := newTestInterpreter(t)

	reply := singleReply(t, in.HandleMessage(1, "Nothing сезон 2"))
	if reply.Text != msgNotFound {
		t.Errorf("Expected %q, got %q", msgNotFound, reply.Text)
	}
}

func TestSeasonCommandMalformedNumber(t *testing.T) {
	in, _ := newTestInterpreter(t)

	reply := singleReply(t, in.HandleMessage(1, "Dexter сезон четыре"))
	if reply.Text != msgUnknown {
		t.Errorf("Expected %q, got %q", msgUnknown, reply.Text)
	}
}

func TestUnknownTextAlwaysAnswered(t *testing.T) {
	in, _ := newTestInterpreter(t)

	reply := singleReply(t, in.HandleMessage(1, "что-то непонятное"))
	if reply.Text != msgUnknown {
		t.Errorf("Expected %q, got %q", msgUnknown, reply.Text)
	}
}

func TestAwaitingNameFlow(t *testing.T) {
	in, svc := newTestInterpreter(t)

	prompt := singleReply(t, in.HandleCallback(1, actionAdd))
	if prompt.Text != msgEnterName {
		t.Errorf("Expected %q, got %q", msgEnterName, prompt.Text)
	}

	// The next message is taken as the name, whatever it looks like
	reply := singleReply(t, in.HandleMessage(1, "Твин Пикс"))
	if !strings.Contains(reply.Text, "добавлен") {
		t.Errorf("Expected added confirmation, got %q", reply.Text)
	}
	if _, err := svc.FindByName("Твин Пикс", 1); err != nil {
		t.Fatalf("Series was not added: %v", err)
	}

	// The flag is cleared, the same text is now an unknown command
	reply = singleReply(t, in.HandleMessage(1, "Твин Пикс 2"))
	if reply.Text != msgUnknown {
		t.Errorf("Awaiting flag should be cleared after one message, got %q", reply.Text)
	}
}

func TestAwaitingNameIsPerChat(t *testing.T) {
	in, svc := newTestInterpreter(t)

	in.HandleCallback(1, actionAdd)

	// Another chat's message is not captured as the name
	reply := singleReply(t, in.HandleMessage(2, "Фарго"))
	if reply.Text != msgUnknown {
		t.Errorf("Chat 2 should not be in awaiting mode, got %q", reply.Text)
	}
	if _, err := svc.FindByName("Фарго", 2); err == nil {
		t.Error("Series must not be added for a chat that never pressed add")
	}

	// Chat 1 is still waiting
	reply = singleReply(t, in.HandleMessage(1, "Фарго"))
	if !strings.Contains(reply.Text, "добавлен") {
		t.Errorf("Expected added confirmation for chat 1, got %q", reply.Text)
	}
}

func TestCallbackProgressActions(t *testing.T) {
	in, svc := newTestInterpreter(t)
	series, _ := svc.AddSeries("Dexter", 1)
	id := series.ID

	reply := singleReply(t, in.HandleCallback(1, fmt.Sprintf("episode:%d", id)))
	if reply.Text != msgEpisodeDone {
		t.Errorf("Expected %q, got %q", msgEpisodeDone, reply.Text)
	}
	updated, _ := svc.FindByID(id, 1)
	if updated.Episode != 2 {
		t.Errorf("Episode button should bump episode to 2, got %d", updated.Episode)
	}

	reply = singleReply(t, in.HandleCallback(1, fmt.Sprintf("season:%d", id)))
	if reply.Text != msgNewSeason {
		t.Errorf("Expected %q, got %q", msgNewSeason, reply.Text)
	}
	updated, _ = svc.FindByID(id, 1)
	if updated.Season != 2 || updated.Episode != 1 {
		t.Errorf("Season button should bump season and reset episode, got season %d episode %d", updated.Season, updated.Episode)
	}

	reply = singleReply(t, in.HandleCallback(1, fmt.Sprintf("finish:%d", id)))
	if reply.Text != msgSeriesOver {
		t.Errorf("Expected %q, got %q", msgSeriesOver, reply.Text)
	}
	updated, _ = svc.FindByID(id, 1)
	if !updated.Finished {
		t.Error("Finish button should mark the series finished")
	}

	reply = singleReply(t, in.HandleCallback(1, fmt.Sprintf("delete:%d", id)))
	if reply.Text != msgSeriesDeleted {
		t.Errorf("Expected %q, got %q", msgSeriesDeleted, reply.Text)
	}
	if _, err := svc.FindByID(id, 1); err == nil {
		t.Error("Delete button should remove the series")
	}
}

func TestCallbackForeignChat(t *testing.T) {
	in, svc := newTestInterpreter(t)
	series, _ := svc.AddSeries("Dexter", 1)

	reply := singleReply(t, in.HandleCallback(2, fmt.Sprintf("finish:%d", series.ID)))
	if reply.Text != msgNotFound {
		t.Errorf("Expected %q for foreign chat, got %q", msgNotFound, reply.Text)
	}

	updated, _ := svc.FindByID(series.ID, 1)
	if updated.Finished {
		t.Error("Foreign chat must not finish the series")
	}
}

func TestCallbackMalformedToken(t *testing.T) {
	in, _ := newTestInterpreter(t)

	reply := singleReply(t, in.HandleCallback(1, "episode:abc"))
	if reply.Text != msgUnknown {
		t.Errorf("Expected %q, got %q", msgUnknown, reply.Text)
	}

	reply = singleReply(t, in.HandleCallback(1, "explode"))
	if reply.Text != msgUnknown {
		t.Errorf("Expected %q, got %q", msgUnknown, reply.Text)
	}
}

func TestStartSendsGreetingAndMenu(t *testing.T) {
	in, _ := newTestInterpreter(t)

	replies := in.HandleMessage(1, "/start")
	if len(replies) != 2 {
		t.Fatalf("Expected greeting plus menu, got %d replies", len(replies))
	}
	if replies[0].Text != msgGreeting {
		t.Errorf("First reply should be the greeting, got %q", replies[0].Text)
	}
	menu := replies[1]
	if menu.Text != msgChooseAction {
		t.Errorf("Second reply should be the menu, got %q", menu.Text)
	}
	if len(menu.Keyboard) != 1 || len(menu.Keyboard[0]) != 3 {
		t.Fatalf("Menu should have one row of three buttons")
	}
	if menu.Keyboard[0][0].Data != actionAdd {
		t.Errorf("First menu button should send %q, got %q", actionAdd, menu.Keyboard[0][0].Data)
	}
}

func TestListInProgressFormatting(t *testing.T) {
	in, svc := newTestInterpreter(t)
	svc.AddSeries("Dexter", 1)
	series, _ := svc.FindByName("Dexter", 1)
	svc.SetSeason(series.ID, 1, 4)
	svc.SetEpisode(series.ID, 1, 17)

	replies := in.HandleMessage(1, "список")
	if len(replies) != 1 {
		t.Fatalf("Expected one message per series, got %d", len(replies))
	}

	reply := replies[0]
	if !strings.HasPrefix(reply.Text, "Dexter — Сезон 4, Серия 17\nДней: ") {
		t.Errorf("Unexpected list formatting: %q", reply.Text)
	}
	if len(reply.Keyboard) != 1 || len(reply.Keyboard[0]) != 4 {
		t.Fatal("Each in-progress series should carry a four-button keyboard")
	}
	wantData := fmt.Sprintf("episode:%d", series.ID)
	if reply.Keyboard[0][0].Data != wantData {
		t.Errorf("Expected first button data %q, got %q", wantData, reply.Keyboard[0][0].Data)
	}
}

func TestListEmpty(t *testing.T) {
	in, _ := newTestInterpreter(t)

	reply := singleReply(t, in.HandleMessage(1, "/list"))
	if reply.Text != msgNoInProgress {
		t.Errorf("Expected %q, got %q", msgNoInProgress, reply.Text)
	}

	reply = singleReply(t, in.HandleCallback(1, actionFinished))
	if reply.Text != msgNoFinished {
		t.Errorf("Expected %q, got %q", msgNoFinished, reply.Text)
	}
}

func TestFinishedListAggregated(t *testing.T) {
	in, svc := newTestInterpreter(t)

	a, _ := svc.AddSeries("Dexter", 1)
	svc.SetSeason(a.ID, 1, 8)
	svc.MarkFinished(a.ID, 1)
	b, _ := svc.AddSeries("Fargo", 1)
	svc.MarkFinished(b.ID, 1)

	reply := singleReply(t, in.HandleMessage(1, "/finished"))
	if !strings.HasPrefix(reply.Text, msgFinishedTitle) {
		t.Errorf("Finished list should start with the title, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Dexter (сезонов: 8, заняло дней: ") {
		t.Errorf("Missing Dexter line in %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Fargo (сезонов: 1, заняло дней: ") {
		t.Errorf("Missing Fargo line in %q", reply.Text)
	}
	if len(reply.Keyboard) != 0 {
		t.Error("Finished list should not carry a keyboard")
	}
}

func TestMenuVocabulary(t *testing.T) {
	in, _ := newTestInterpreter(t)

	for _, word := range []string{"/menu", "меню", " Меню "} {
		reply := singleReply(t, in.HandleMessage(1, word))
		if reply.Text != msgChooseAction {
			t.Errorf("%q should open the menu, got %q", word, reply.Text)
		}
	}

	reply := singleReply(t, in.HandleMessage(1, "/commands"))
	if reply.Text != msgCommands {
		t.Errorf("Expected the help text, got %q", reply.Text)
	}
}
