package bot

// User-facing texts. Kept in one place; i18n is out of scope.
const (
	welcomeText = "Я твой личный помощник для ведения учета рабочего времени и отчетности. \n\n" +
		"После каждого рабочего дня, я буду ждать тебя с отчетом о проделанной работе. " +
		"Это поможет тебе не только точно отслеживать свой рабочий график, но и получать заработанные деньги вовремя. \n\n" +
		"Но самое главное, не забывай отдыхать и заботиться о своем физическом и эмоциональном здоровье - это тоже очень важно!"

	startPromptText  = "Ну, что, предлагаю начать с заполнения первого твоего отчета"
	chooseModelText  = "Выберите модель"
	chooseGroupText  = "Выберите группу"
	chooseActionText = "Выберите операцию"

	quantityPromptText = "Укажите количество:"
	notIntegerText     = "Укажите целое число"
	notPositiveText    = "Укажите число больше нуля"
	savingText         = "Минуту, сохраняю данные..."
	continueText       = "Продолжим заполнение отчета?"

	loadingText     = "Загружаю данные..."
	calculatingText = "Считаю результат..."
	workingText     = "Работаю..."

	thanksText       = "Спасибо за работу!"
	activityPrefix   = "Ваша активность сегодня - "
	earnedPrefix     = "Вы заработали - "
	emptyReportText  = "Пока пусто"
	nothingText      = "Ничего нет."
	unknownText      = "Извините, я не понимаю этой команды"
	notAdminText     = "Ты не админ!"
	adminMenuText    = "Меню администратора"
	hiddenPrefix     = "Скрыто: "
	submitFailedText = "Что-то пошло не так, пожалуйста, повторите..."
	shrugText        = "🤷‍♂️"
)
