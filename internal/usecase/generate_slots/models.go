package generate_slots

// Request запрос на массовую генерацию слотов
type Request struct {
	TargetCount int
}

// Result результат массовой генерации
type Result struct {
	Created             int `json:"created"`
	RemoteEventsCreated int `json:"remoteEventsCreated"`
	Errors              int `json:"errors"`
}

// CapacityResult результат проверки ёмкости
type CapacityResult struct {
	// Unlinked количество будущих слотов без привязки к событию календаря
	// на момент проверки
	Unlinked int `json:"unlinked"`

	// Triggered true, если ёмкость упала ниже порога и генерация была запущена
	Triggered bool `json:"triggered"`

	// Generation результат запущенной генерации (nil, если Triggered=false)
	Generation *Result `json:"generation,omitempty"`
}
