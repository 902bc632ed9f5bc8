package generate_slots

import (
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	"github.com/ankudinovm/BDA-SlotService/pkg/types"
)

// candidate пара (дата, время) - кандидат на создание слота
type candidate struct {
	date      time.Time
	timeOfDay types.TimeString
}

// key возвращает ключ кандидата для дедупликации в рамках одного запуска
func (c candidate) key() string {
	return c.date.Format(domain.DateFormat) + " " + c.timeOfDay.String()
}

// nextMonday возвращает ближайший понедельник строго после from (полночь)
// Если from - понедельник, возвращается понедельник следующей недели
func nextMonday(from time.Time) time.Time {
	date := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	days := (int(time.Monday) - int(date.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}

	return date.AddDate(0, 0, days)
}

// buildCandidates строит детерминированную последовательность кандидатов:
// начиная со следующего понедельника, по неделям (не больше maxWeeks),
// понедельник-пятница, по фиксированной сетке времени
// Последовательность - верхняя граница перебора: генерация останавливается,
// как только создано нужное количество слотов
func buildCandidates(from time.Time, maxWeeks int) []candidate {
	candidates := make([]candidate, 0, maxWeeks*5*len(domain.AllowedTimesOfDay))
	monday := nextMonday(from)

	for week := 0; week < maxWeeks; week++ {
		for day := 0; day < 5; day++ {
			date := monday.AddDate(0, 0, week*7+day)

			for _, timeOfDay := range domain.AllowedTimesOfDay {
				candidates = append(candidates, candidate{date: date, timeOfDay: timeOfDay})
			}
		}
	}

	return candidates
}
