package bot

import "fmt"

// User-facing response texts.
const (
	msgGreeting = "Привет! Этот бот запоминает, на какой серии сериала вы остановились. " +
		"Используйте кнопки или напишите /commands, чтобы узнать, как добавлять новые сериалы и отмечать серии без кнопок."

	msgCommands = "Чтобы добавить новый сериал, напишите слово \"начать\", пробел и название сериала.\nНапример \"Начать Декстер\"." +
		"\n\nЧтобы отметить серию, напишите название сериала, пробел, слово \"серия\" и номер серии через пробел.\nНапример \"Декстер серия 17\"." +
		"\n\nЧтобы сменить сезон, напишите название сериала, пробел, слово \"сезон\" и номер сезона через пробел.\nНапример \"Декстер сезон 4\"." +
		"\n\nСлово \"меню\" вызывает меню с кнопками, слово \"список\" присылает список сериалов, которые вы сейчас смотрите."

	msgChooseAction  = "Выберите действие:"
	msgEnterName     = "Введите название сериала:"
	msgAddAccepted   = "Принято. Приятного просмотра!"
	msgAccepted      = "Принято!"
	msgEpisodeDone   = "Готово!"
	msgNewSeason     = "Начали новый сезон!"
	msgSeriesOver    = "Всё, сериал закончился."
	msgSeriesDeleted = "Сериал удалён."
	msgNoInProgress  = "У вас пока нет сериалов в процессе"
	msgNoFinished    = "Законченных сериалов пока нет"
	msgFinishedTitle = "Просмотренные сериалы:\n"
	msgNotFound      = "Сериал не найден"
	msgUnknown       = "Не понял команду. Напишите /commands, чтобы посмотреть список команд."
	msgStorageError  = "Что-то пошло не так, попробуйте ещё раз."
)

// Button labels.
const (
	btnAddSeries   = "Добавить сериал"
	btnInProgress  = "Сериалы в процессе"
	btnFinished    = "Законченные"
	btnNextEpisode = "+ серия"
	btnNextSeason  = "+ сезон"
	btnFinish      = "Закончить"
	btnDelete      = "Удалить"
)

func msgSeriesAdded(name string) string {
	return fmt.Sprintf("Сериал \"%s\" добавлен. Приятного просмотра!", name)
}

func formatInProgress(name string, season, episode, days int) string {
	return fmt.Sprintf("%s — Сезон %d, Серия %d\nДней: %d", name, season, episode, days)
}

func formatFinishedLine(name string, seasons, days int) string {
	return fmt.Sprintf("%s (сезонов: %d, заняло дней: %d)\n", name, seasons, days)
}
