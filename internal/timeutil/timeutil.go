package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Funções puras de tempo civil usadas pelos engines de status e pelo scheduler.
// Toda aritmética de slot acontece no fuso civil do negócio, nunca em UTC:
// os horários de postagem têm significado para o usuário final nesse fuso.

const MinutesPerDay = 24 * 60

// ParseSlot converte "HH:MM" em minuto-do-dia (0..1439).
func ParseSlot(slot string) (int, error) {
	parts := strings.SplitN(slot, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("slot %q: formato esperado HH:MM", slot)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("slot %q: hora inválida", slot)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("slot %q: minuto inválido", slot)
	}
	return h*60 + m, nil
}

// MinuteOfDay retorna o minuto-do-dia de t no fuso informado.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// AtMinuteOfDay retorna o instante do dia civil de ref (no fuso loc)
// correspondente ao minuto-do-dia informado, com segundos zerados.
func AtMinuteOfDay(ref time.Time, minutes int, loc *time.Location) time.Time {
	lt := ref.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), minutes/60, minutes%60, 0, 0, loc)
}

// DaysSince retorna os dias decorridos (fracionários) entre start e now.
// Negativo se start estiver no futuro.
func DaysSince(start, now time.Time) float64 {
	return now.Sub(start).Hours() / 24
}

// HoursSince retorna as horas decorridas (fracionárias) entre start e now.
func HoursSince(start, now time.Time) float64 {
	return now.Sub(start).Hours()
}
