package dialog

// Event входящее событие диалога, уже очищенное от транспортных
// деталей. Закрытое объединение: Command, Text, Contact, ButtonPress.
type Event interface {
	isEvent()
}

// Command команда вида /start, /cancel.
type Command struct {
	Name string
}

// Text свободный текст, смысл зависит от текущего шага диалога.
type Text struct {
	Body string
}

// Contact телефон, переданный структурной кнопкой "поделиться контактом".
type Contact struct {
	Phone string
}

// ButtonPress нажатие inline-кнопки. Token из закрытого алфавита
// переходов, Payload несёт идентификатор сущности, если кнопка
// означает "выбрать элемент N".
type ButtonPress struct {
	Token   Token
	Payload string
}

func (Command) isEvent()     {}
func (Text) isEvent()        {}
func (Contact) isEvent()     {}
func (ButtonPress) isEvent() {}

const (
	CommandStart  = "start"
	CommandCancel = "cancel"
)
