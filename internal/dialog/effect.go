package dialog

// Effect исходящее действие, которое адаптер транспорта должен
// выполнить после обработки события. Ядро диалога само ничего не
// отправляет.
type Effect interface {
	isEffect()
}

// Button кнопка меню. Payload пустой, если кнопка не привязана к
// конкретной сущности.
type Button struct {
	Label   string
	Token   Token
	Payload string
}

// SendText простое текстовое сообщение.
type SendText struct {
	Body string
}

// SendMenu сообщение с inline-клавиатурой. Порядок кнопок значим.
type SendMenu struct {
	Body    string
	Buttons []Button
}

// SendDocument файл с подписью и необязательным меню под ним.
type SendDocument struct {
	FileName string
	Caption  string
	Data     []byte
	Buttons  []Button
}

func (SendText) isEffect()     {}
func (SendMenu) isEffect()     {}
func (SendDocument) isEffect() {}
