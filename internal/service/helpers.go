package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
)

// searchNamed loads the records matching every token and ranks them.
func searchNamed[T Named, PT interface {
	*T
	models.Record
}](ctx context.Context, query string, search func(context.Context, []string) ([]models.Row, error)) ([]T, error) {
	query = strings.TrimSpace(query)
	tokens := SearchTokens(query)
	if len(tokens) == 0 {
		return nil, Validation("nombre", "search term must not be empty")
	}

	rows, err := search(ctx, tokens)
	if err != nil {
		return nil, Infra(err, "failed to search by name")
	}

	records, err := models.DecodeRows[T, PT](rows)
	if err != nil {
		return nil, Infra(err, "failed to decode search results")
	}
	return Rank(records, query), nil
}

func decodeList[T any, PT interface {
	*T
	models.Record
}](rows []models.Row, err error, what string) ([]T, error) {
	if err != nil {
		return nil, Infra(err, "failed to get %s", what)
	}
	out, err := models.DecodeRows[T, PT](rows)
	if err != nil {
		return nil, Infra(err, "failed to decode %s", what)
	}
	return out, nil
}

func decodeOne[T any, PT interface {
	*T
	models.Record
}](row models.Row, err error, what string) (*T, error) {
	if err != nil {
		return nil, Infra(err, "failed to get %s", what)
	}
	out, err := models.DecodeRow[T, PT](row)
	if err != nil {
		return nil, Infra(err, "failed to decode %s", what)
	}
	return out, nil
}

func parseOptionalDate(field string, s *string) (*models.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, Validation(field, "invalid date for %s, expected YYYY-MM-DD", field)
	}
	return &d, nil
}

func parseOptionalSex(s *string) (*models.Sex, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	sex, err := models.ParseSex(strings.ToUpper(strings.TrimSpace(*s)))
	if err != nil {
		return nil, Validation("sexo", "sexo must be one of M, F, O")
	}
	return &sex, nil
}

func parseSlot(day, start, end string) (models.Weekday, models.TimeOfDay, models.TimeOfDay, error) {
	weekday, err := models.ParseWeekday(strings.ToLower(strings.TrimSpace(day)))
	if err != nil {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, Validation("dia_semana", "invalid weekday %q", day)
	}
	from, err := models.ParseTimeOfDay(start)
	if err != nil {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, Validation("hora_inicio", "invalid time %q, expected HH:MM", start)
	}
	to, err := models.ParseTimeOfDay(end)
	if err != nil {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, Validation("hora_fin", "invalid time %q, expected HH:MM", end)
	}
	if !from.Before(to) {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, Validation("hora_fin", "end time must be after start time")
	}
	return weekday, from, to, nil
}

// trimmedPtr returns nil for blank input.
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func isForeignKey(err error) bool {
	return errors.Is(err, repository.ErrForeignKey)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}
