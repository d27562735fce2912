package business

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/pkg/dbmetrics"
	"github.com/bookraft/appointment-service/pkg/psqlbuilder"
)

// GetDayHours получает часы работы бизнеса на день недели вместе с периодами
// Периоды отсортированы по времени начала
// Если для дня нет записи, возвращает ErrDayHoursNotFound
func (r *Repository) GetDayHours(ctx context.Context, businessID int64, weekday int) (*domain.DayHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"weekday",
		"is_closed",
		"created_at",
		"updated_at",
	).
		From("business_day_hours").
		Where(squirrel.Eq{"business_id": businessID, "weekday": weekday}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDayHours - build select query: %v", ErrBuildQuery, err)
	}

	var day domain.DayHours
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&day.ID,
		&day.BusinessID,
		&day.Weekday,
		&day.IsClosed,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDayHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayHours - scan day hours: %v", ErrScanRow, err)
	}

	day.CreatedAt = createdAt.Time
	day.UpdatedAt = updatedAt.Time

	periods, err := r.getPeriods(ctx, executor, []int64{day.ID})
	if err != nil {
		return nil, err
	}
	day.Periods = periods[day.ID]

	return &day, nil
}

// GetWeek получает часы работы бизнеса на все дни недели с периодами
// Дни отсортированы по weekday, периоды внутри дня по времени начала
func (r *Repository) GetWeek(ctx context.Context, businessID int64) ([]*domain.DayHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"weekday",
		"is_closed",
		"created_at",
		"updated_at",
	).
		From("business_day_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.DayHours, 0, 7)
	dayIDs := make([]int64, 0, 7)

	for rows.Next() {
		var day domain.DayHours
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&day.ID,
			&day.BusinessID,
			&day.Weekday,
			&day.IsClosed,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeek - scan row: %v", ErrScanRow, err)
		}

		day.CreatedAt = createdAt.Time
		day.UpdatedAt = updatedAt.Time
		days = append(days, &day)
		dayIDs = append(dayIDs, day.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeek - rows error: %v", ErrScanRow, err)
	}

	if len(dayIDs) == 0 {
		return days, nil
	}

	periods, err := r.getPeriods(ctx, executor, dayIDs)
	if err != nil {
		return nil, err
	}
	for _, day := range days {
		day.Periods = periods[day.ID]
	}

	return days, nil
}

// ReplaceWeek полностью заменяет недельное расписание бизнеса
// Предназначен для вызова внутри транзакции (через txmanager)
func (r *Repository) ReplaceWeek(ctx context.Context, businessID int64, days []*domain.DayHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Удаляем старые дни, периоды удаляются каскадно
	deleteQuery, deleteArgs, err := psqlbuilder.Delete("business_day_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeek - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeek - execute delete: %v", ErrExecQuery, err)
	}

	for _, day := range days {
		insertQuery, insertArgs, err := psqlbuilder.Insert("business_day_hours").
			Columns("business_id", "weekday", "is_closed").
			Values(businessID, day.Weekday, day.IsClosed).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceWeek - build insert query: %v", ErrBuildQuery, err)
		}

		var dayID int64
		if err := executor.QueryRowContext(ctx, insertQuery, insertArgs...).Scan(&dayID); err != nil {
			return fmt.Errorf("%w: ReplaceWeek - insert day hours: %v", ErrExecQuery, err)
		}
		day.ID = dayID
		day.BusinessID = businessID

		for i := range day.Periods {
			period := &day.Periods[i]
			periodQuery, periodArgs, err := psqlbuilder.Insert("business_time_periods").
				Columns("day_hours_id", "start_time", "end_time", "label").
				Values(dayID, period.StartTime, period.EndTime, period.Label).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return fmt.Errorf("%w: ReplaceWeek - build period insert query: %v", ErrBuildQuery, err)
			}

			if err := executor.QueryRowContext(ctx, periodQuery, periodArgs...).Scan(&period.ID); err != nil {
				return fmt.Errorf("%w: ReplaceWeek - insert period: %v", ErrExecQuery, err)
			}
			period.DayHoursID = dayID
		}
	}

	return nil
}

// getPeriods получает периоды для набора дней, сгруппированные по day_hours_id
func (r *Repository) getPeriods(ctx context.Context, executor DBExecutor, dayIDs []int64) (map[int64][]domain.TimePeriod, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"day_hours_id",
		"start_time",
		"end_time",
		"label",
		"created_at",
	).
		From("business_time_periods").
		Where(squirrel.Eq{"day_hours_id": dayIDs}).
		OrderBy("start_time ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getPeriods - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getPeriods - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.TimePeriod)
	for rows.Next() {
		var period domain.TimePeriod
		var createdAt sql.NullTime

		err := rows.Scan(
			&period.ID,
			&period.DayHoursID,
			&period.StartTime,
			&period.EndTime,
			&period.Label,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: getPeriods - scan row: %v", ErrScanRow, err)
		}

		period.CreatedAt = createdAt.Time
		result[period.DayHoursID] = append(result[period.DayHoursID], period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getPeriods - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
