package domain

import "github.com/ankudinovm/BDA-SlotService/pkg/types"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Slot grid constants
const (
	// SlotDurationMinutes длительность одного слота
	SlotDurationMinutes = 60

	// MergeWindowDays горизонт запроса событий внешнего календаря
	// при построении объединённого представления слотов
	MergeWindowDays = 28
)

// Capacity constants
const (
	// CapacityFloor минимальное количество будущих слотов без привязки
	// к внешнему событию; ниже порога запускается генерация
	CapacityFloor = 25

	// CapacityLeadDays слот учитывается в подсчёте ёмкости, только если
	// его дата минимум на столько дней в будущем
	CapacityLeadDays = 14

	// MaxGenerationWeeks предохранитель от бесконечной генерации
	MaxGenerationWeeks = 20
)

// AllowedTimesOfDay фиксированная сетка времени начала слотов
// Порядок важен - генерация идёт в этом порядке
var AllowedTimesOfDay = []types.TimeString{
	"10:00",
	"11:00",
	"13:00",
	"14:00",
	"15:00",
}

// IsAllowedTimeOfDay проверяет, что время входит в фиксированную сетку
func IsAllowedTimeOfDay(t types.TimeString) bool {
	for _, allowed := range AllowedTimesOfDay {
		if t == allowed {
			return true
		}
	}
	return false
}
